// Package graphql exposes the read side of the loan portfolio as a GraphQL schema.
package graphql

import (
	"fmt"
	"loan-servicing/internal/domain/loan"
	"log/slog"
	"net/http"

	gql "github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
)

var loanPaymentType = gql.NewObject(gql.ObjectConfig{
	Name: "LoanPayment",
	Fields: gql.Fields{
		"id":            &gql.Field{Type: gql.Int},
		"loanId":        &gql.Field{Type: gql.Int},
		"paymentAmount": &gql.Field{Type: gql.Float},
		"paymentDate":   &gql.Field{Type: gql.String, Description: "YYYY-MM-DD, null when unpaid."},
		"status":        &gql.Field{Type: gql.String},
	},
})

var loanType = gql.NewObject(gql.ObjectConfig{
	Name: "ExistingLoans",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.Int},
		"name":         &gql.Field{Type: gql.String},
		"interestRate": &gql.Field{Type: gql.Float},
		"principal":    &gql.Field{Type: gql.Int},
		"dueDate":      &gql.Field{Type: gql.String, Description: "YYYY-MM-DD."},
		"status":       &gql.Field{Type: gql.String},
		"loanPayments": &gql.Field{Type: gql.NewList(loanPaymentType)},
	},
})

func toGraph(details loan.LoanDetails) map[string]interface{} {
	payments := make([]map[string]interface{}, 0, len(details.Payments))
	for _, p := range details.Payments {
		var date interface{}
		if p.PaymentDate != nil {
			date = loan.FormatDate(*p.PaymentDate)
		}
		payments = append(payments, map[string]interface{}{
			"id":            p.ID,
			"loanId":        p.LoanID,
			"paymentAmount": p.PaymentAmount,
			"paymentDate":   date,
			"status":        string(p.Status),
		})
	}
	return map[string]interface{}{
		"id":           details.ID,
		"name":         details.Name,
		"interestRate": details.InterestRate,
		"principal":    details.Principal,
		"dueDate":      loan.FormatDate(details.DueDate),
		"status":       string(details.Status),
		"loanPayments": payments,
	}
}

func NewSchema(loanService loan.LoanService) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"loans": &gql.Field{
				Type: gql.NewList(loanType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					loans, err := loanService.ListLoans(p.Context)
					if err != nil {
						return nil, publicError(err)
					}
					out := make([]map[string]interface{}, 0, len(loans))
					for _, l := range loans {
						out = append(out, toGraph(l))
					}
					return out, nil
				},
			},
			"loan": &gql.Field{
				Type: loanType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					details, err := loanService.GetLoan(p.Context, int64(id))
					if err != nil {
						return nil, publicError(err)
					}
					return toGraph(*details), nil
				},
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query})
}

// NewHandler serves the schema over HTTP with GraphiQL enabled.
func NewHandler(loanService loan.LoanService, logger *slog.Logger) (http.Handler, error) {
	schema, err := NewSchema(loanService)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	logger.Info("GraphQL schema ready", "graphiql", true)

	return gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	}), nil
}
