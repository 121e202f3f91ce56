package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintRequest struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type AccountResponse struct {
	Address     string `json:"address"`
	Balance     int64  `json:"balance"`
	VotingPower int64  `json:"voting_power"`
}

type SupplyResponse struct {
	TotalSupply int64 `json:"total_supply"`
	Paused      bool  `json:"paused"`
}

type PauseRequest struct {
	Actor string `json:"actor"`
}
