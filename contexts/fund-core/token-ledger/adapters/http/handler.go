package httpadapter

import (
	"context"
	"errors"
	"log/slog"

	"decentralfund/contexts/fund-core/token-ledger/application"
	domainerrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
	httptransport "decentralfund/contexts/fund-core/token-ledger/transport/http"
)

type Handler struct {
	Ledger *application.Service
	Logger *slog.Logger
}

func (h Handler) MintHandler(ctx context.Context, req httptransport.MintRequest) (httptransport.AccountResponse, error) {
	if err := h.Ledger.Mint(ctx, req.Account, req.Amount); err != nil {
		return httptransport.AccountResponse{}, err
	}
	return h.AccountHandler(ctx, req.Account)
}

func (h Handler) TransferHandler(ctx context.Context, req httptransport.TransferRequest) (httptransport.AccountResponse, error) {
	if err := h.Ledger.Transfer(ctx, req.From, req.To, req.Amount); err != nil {
		return httptransport.AccountResponse{}, err
	}
	return h.AccountHandler(ctx, req.From)
}

func (h Handler) AccountHandler(ctx context.Context, address string) (httptransport.AccountResponse, error) {
	account, err := h.Ledger.GetAccount(ctx, address)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			// Unknown accounts read as zero, matching the voting-power query.
			return httptransport.AccountResponse{Address: address}, nil
		}
		return httptransport.AccountResponse{}, err
	}
	return httptransport.AccountResponse{
		Address:     account.Address,
		Balance:     account.Balance,
		VotingPower: account.VotingPower,
	}, nil
}

func (h Handler) SupplyHandler(ctx context.Context) (httptransport.SupplyResponse, error) {
	supply, err := h.Ledger.TotalSupply(ctx)
	if err != nil {
		return httptransport.SupplyResponse{}, err
	}
	paused, err := h.Ledger.IsPaused(ctx)
	if err != nil {
		return httptransport.SupplyResponse{}, err
	}
	return httptransport.SupplyResponse{
		TotalSupply: supply,
		Paused:      paused,
	}, nil
}

func (h Handler) PauseHandler(ctx context.Context, req httptransport.PauseRequest) error {
	return h.Ledger.Pause(ctx, req.Actor)
}

func (h Handler) UnpauseHandler(ctx context.Context, req httptransport.PauseRequest) error {
	return h.Ledger.Unpause(ctx, req.Actor)
}
