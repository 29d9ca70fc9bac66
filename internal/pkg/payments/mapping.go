package payments

import (
	"time"

	"github.com/stripe/stripe-go/v81"

	"github.com/startstack/startstack/app/models"
)

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func unixTimePtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0)
	return &t
}

func mapProduct(data *stripe.Product) *models.Product {
	features := make([]string, 0, len(data.MarketingFeatures))
	for _, f := range data.MarketingFeatures {
		if f != nil && f.Name != "" {
			features = append(features, f.Name)
		}
	}

	// one image is enough for the catalog
	image := ""
	if len(data.Images) > 0 {
		image = data.Images[0]
	}

	return &models.Product{
		ID:                data.ID,
		Active:            data.Active,
		Name:              data.Name,
		Description:       data.Description,
		Image:             image,
		MarketingFeatures: features,
		Metadata:          data.Metadata,
	}
}

func mapPrice(data *stripe.Price) *models.Price {
	p := &models.Price{
		ID:          data.ID,
		Active:      data.Active,
		Currency:    string(data.Currency),
		Description: data.Nickname,
		Type:        string(data.Type),
		UnitAmount:  data.UnitAmount,
		Metadata:    data.Metadata,
	}
	if data.Recurring != nil {
		p.Interval = string(data.Recurring.Interval)
		p.IntervalCount = data.Recurring.IntervalCount
	}
	if data.Product != nil {
		p.ProductID = data.Product.ID
	}
	return p
}

// mapSubscription lifts the first line item's price id and quantity to the
// top level, matching the local schema.
func mapSubscription(data *stripe.Subscription) *models.Subscription {
	sub := &models.Subscription{
		ID:                 data.ID,
		Status:             string(data.Status),
		Description:        data.Description,
		Quantity:           1,
		CancelAtPeriodEnd:  data.CancelAtPeriodEnd,
		CurrentPeriodStart: unixTime(data.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTime(data.CurrentPeriodEnd),
		CancelAt:           unixTimePtr(data.CancelAt),
		CanceledAt:         unixTimePtr(data.CanceledAt),
		EndedAt:            unixTimePtr(data.EndedAt),
		TrialStart:         unixTimePtr(data.TrialStart),
		TrialEnd:           unixTimePtr(data.TrialEnd),
		Created:            unixTime(data.Created),
	}
	if data.Items != nil && len(data.Items.Data) > 0 {
		item := data.Items.Data[0]
		if item.Price != nil {
			sub.PriceID = item.Price.ID
		}
		sub.Quantity = item.Quantity
	}
	return sub
}

func mapPaymentIntent(data *stripe.PaymentIntent) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:          data.ID,
		Amount:      data.Amount,
		Status:      string(data.Status),
		Description: data.Description,
		Created:     unixTime(data.Created),
	}
}

func mapPaymentMethod(data *stripe.PaymentMethod) *models.PaymentMethod {
	pm := &models.PaymentMethod{
		ID:    data.ID,
		Brand: "unknown",
		Last4: "xxxx",
	}
	if data.Card != nil {
		if data.Card.DisplayBrand != "" {
			pm.Brand = data.Card.DisplayBrand
		}
		if data.Card.Last4 != "" {
			pm.Last4 = data.Card.Last4
		}
		pm.ExpMonth = data.Card.ExpMonth
		pm.ExpYear = data.Card.ExpYear
	}
	return pm
}

func mapInvoice(data *stripe.Invoice) *models.Invoice {
	return &models.Invoice{
		ID:               data.ID,
		Status:           string(data.Status),
		AmountDue:        data.AmountDue,
		AmountPaid:       data.AmountPaid,
		AmountRemaining:  data.AmountRemaining,
		HostedInvoiceURL: data.HostedInvoiceURL,
		InvoiceNumber:    data.Number,
		InvoicePDF:       data.InvoicePDF,
		Created:          unixTime(data.Created),
	}
}
