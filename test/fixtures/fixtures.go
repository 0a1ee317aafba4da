package fixtures

import (
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/shopspring/decimal"
)

const (
	StoreA = "store-a"
	StoreB = "store-b"
)

func NewCreditRequest(customerID, amount string) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		CustomerID:  customerID,
		Type:        model.TransactionCredit,
		TotalAmount: decimal.RequireFromString(amount),
	}
}

func NewPaymentRequest(customerID, amount string) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		CustomerID:  customerID,
		Type:        model.TransactionPayment,
		TotalAmount: decimal.RequireFromString(amount),
	}
}

func NewProductCredit(customerID, productID string, quantity int, amount string) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		CustomerID:  customerID,
		Type:        model.TransactionCredit,
		TotalAmount: decimal.RequireFromString(amount),
		ProductID:   productID,
		Quantity:    &quantity,
	}
}

func NewCustomerCreateRequest(name, initialDebt string) model.CustomerCreateRequest {
	req := model.CustomerCreateRequest{Name: name}
	if initialDebt != "" {
		req.InitialDebt = decimal.RequireFromString(initialDebt)
	}
	return req
}

func NewProductCreateRequest(name, price string, stock int) model.ProductCreateRequest {
	return model.ProductCreateRequest{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Unit:          "unit",
	}
}
