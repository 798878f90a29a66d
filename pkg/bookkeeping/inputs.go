package bookkeeping

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// DebtorInput is the editable part of a debtor.
type DebtorInput struct {
	Date    models.Date `json:"date"`
	Name    string      `json:"name" validate:"required"`
	Address string      `json:"address" validate:"required"`
	Phone   string      `json:"phone" validate:"required"`
	Finance string      `json:"finance"`
}

// PurchaseInput records a tractor bought from a supplier or a debtor.
type PurchaseInput struct {
	Date          models.Date       `json:"date"`
	SupplierName  string            `json:"supplierName" validate:"required"`
	ChassisNumber string            `json:"chassisNumber" validate:"required"`
	ModelNumber   string            `json:"modelNumber" validate:"required"`
	InvoiceNumber string            `json:"invoiceNumber" validate:"required"`
	Amount        models.Amount     `json:"amount" validate:"gt=0"`
	PersonType    models.PersonType `json:"personType" validate:"required,oneof=creditor debtor"`
}

// SaleInput records a tractor sold from stock.
type SaleInput struct {
	Date          models.Date   `json:"date"`
	SerialNumber  string        `json:"serialNumber" validate:"required"`
	ChassisNumber string        `json:"chassisNumber" validate:"required"`
	CustomerName  string        `json:"customerName" validate:"required"`
	Amount        models.Amount `json:"amount" validate:"gt=0"`
}

// StockInput edits a stock row and its purchase.
type StockInput struct {
	Date          models.Date   `json:"date"`
	InvoiceNumber string        `json:"invoiceNumber" validate:"required"`
	ChassisNumber string        `json:"chassisNumber" validate:"required"`
	ModelNumber   string        `json:"modelNumber" validate:"required"`
	Amount        models.Amount `json:"amount" validate:"gte=0"`
}

// ReceiptInput records money received from a debtor.
type ReceiptInput struct {
	Date       models.Date     `json:"date"`
	DebtorName string          `json:"name" validate:"required"`
	Amount     models.Amount   `json:"amount" validate:"gt=0"`
	Book       models.BookType `json:"bookType" validate:"required,oneof=cash bank"`
}

// PaymentInput records money paid out. A PersonType of "cash" is a transfer
// from the cash book to the bank book and needs no name or book.
type PaymentInput struct {
	Date       models.Date       `json:"date"`
	PersonType models.PersonType `json:"personType" validate:"required,oneof=creditor debtor cash"`
	Name       string            `json:"name" validate:"required_unless=PersonType cash"`
	Amount     models.Amount     `json:"amount" validate:"gt=0"`
	Book       models.BookType   `json:"bookType" validate:"omitempty,oneof=cash bank"`
}

// BankEntryInput is a manual bank book row.
type BankEntryInput struct {
	Date       models.Date   `json:"date"`
	Particular string        `json:"particular" validate:"required"`
	Debit      models.Amount `json:"debit" validate:"gte=0"`
	Credit     models.Amount `json:"credit" validate:"gte=0"`
}

// CashEditInput edits a cash book row. An empty Type keeps the stored one.
type CashEditInput struct {
	Date       models.Date    `json:"date"`
	Name       string         `json:"name"`
	Particular string         `json:"particular"`
	Amount     models.Amount  `json:"amount" validate:"gt=0"`
	Type       models.TxnType `json:"type" validate:"omitempty,oneof=receive payment"`
}

// BankAccountInput creates or edits a bank account.
type BankAccountInput struct {
	BankName      string `json:"bankName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks struct tags and converts the first failure into a
// ValidationError.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(fe.Field(), fe.Value(), describe(fe))
	}
	return fmt.Errorf("failed to validate input: %w", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "is required"
	case "gt":
		if fe.Param() == "0" {
			return "must be greater than zero"
		}
		return "must be greater than " + fe.Param()
	case "gte":
		if fe.Param() == "0" {
			return "cannot be negative"
		}
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed the " + fe.Tag() + " check"
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
