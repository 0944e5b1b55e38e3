package app

import (
	"fmt"

	"subminder_reminder/internal/domain/subscription"
)

// CurrencySymbolMode selects how the cost symbol in a reminder is chosen.
type CurrencySymbolMode string

const (
	// SymbolFixed always renders FixedCurrencySymbol, whatever the subscription's currency.
	SymbolFixed CurrencySymbolMode = "fixed"
	// SymbolFromSubscription renders the symbol of the subscription's own currency.
	SymbolFromSubscription CurrencySymbolMode = "subscription"
)

const FixedCurrencySymbol = "$"

// MessageComposer renders reminder bodies.
type MessageComposer struct {
	Mode CurrencySymbolMode
}

// Body returns the reminder text for sub.
func (c MessageComposer) Body(sub *subscription.Subscription) string {
	symbol := FixedCurrencySymbol
	if c.Mode == SymbolFromSubscription && sub.Currency != "" {
		symbol = sub.Currency.Symbol()
	}
	return fmt.Sprintf("Your %s subscription for %s%s is due in %d days.",
		sub.ServiceName, symbol, sub.Cost.StringFixed(2), sub.LeadTimeDays())
}
