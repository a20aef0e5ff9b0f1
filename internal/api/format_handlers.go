package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerFormatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "formatPrice",
		Method:      http.MethodGet,
		Path:        "/api/v1/format/price",
		Summary:     "Format price",
		Description: "Renders an amount in centavos as Brazilian Real, e.g. R$ 49,99",
		Tags:        []string{"Format"},
	}, s.handleFormatPrice)
}

type FormatPriceInput struct {
	Amount int64 `query:"amount" required:"true" doc:"Amount in centavos"`
}

type FormatPriceResponse struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
	Symbol    string `json:"symbol" doc:"Currency symbol used in formatted"`
}

type FormatPriceOutput struct {
	Body FormatPriceResponse
}

func (s *Server) handleFormatPrice(_ context.Context, input *FormatPriceInput) (*FormatPriceOutput, error) {
	return &FormatPriceOutput{Body: FormatPriceResponse{
		Amount:    input.Amount,
		Formatted: s.services.Money.Format(input.Amount),
		Symbol:    s.services.Money.Symbol(),
	}}, nil
}
