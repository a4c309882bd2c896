package settings

import (
	"encoding/json"
	"fmt"

	"github.com/marianozunino/uploadpro/internal/model"
)

type persisted struct {
	Settings      json.RawMessage `json:"settings"`
	Ads           json.RawMessage `json:"ads"`
	Pages         json.RawMessage `json:"pages"`
	Subscriptions json.RawMessage `json:"subscriptions"`
}

// Reconcile merges a persisted blob over the defaults. Fields present in the
// blob win, absent fields keep their default. Ads, plans and gateways are matched
// by id: a persisted entry replaces the default with the same id and entries with
// unknown ids are appended, so slots and plans added later are never dropped.
func Reconcile(raw []byte) (model.AppState, error) {
	state := Defaults()

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return state, fmt.Errorf("failed to parse stored settings: %w", err)
	}

	if isPresent(p.Settings) {
		if err := json.Unmarshal(p.Settings, &state.Settings); err != nil {
			return Defaults(), fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	if isPresent(p.Ads) {
		var ads []model.AdConfig
		if err := json.Unmarshal(p.Ads, &ads); err != nil {
			return Defaults(), fmt.Errorf("failed to parse ads: %w", err)
		}
		state.Ads = mergeByID(state.Ads, ads, func(a model.AdConfig) string { return a.ID })
	}

	// Decoding into the default struct leaves absent keys untouched, which gives the
	// field-wise merge of contact for free.
	if isPresent(p.Pages) {
		if err := json.Unmarshal(p.Pages, &state.Pages); err != nil {
			return Defaults(), fmt.Errorf("failed to parse pages: %w", err)
		}
	}

	if isPresent(p.Subscriptions) {
		var subs struct {
			Plans           []model.Plan           `json:"plans"`
			PaymentGateways []model.PaymentGateway `json:"paymentGateways"`
		}
		if err := json.Unmarshal(p.Subscriptions, &subs); err != nil {
			return Defaults(), fmt.Errorf("failed to parse subscriptions: %w", err)
		}
		state.Subscriptions.Plans = mergeByID(state.Subscriptions.Plans, subs.Plans, func(p model.Plan) string { return p.ID })
		state.Subscriptions.PaymentGateways = mergeByID(state.Subscriptions.PaymentGateways, subs.PaymentGateways, func(g model.PaymentGateway) string { return g.ID })
		normalizePopular(&state.Subscriptions, subs.Plans)
	}

	return state, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func mergeByID[T any](defaults, stored []T, id func(T) string) []T {
	out := append([]T(nil), defaults...)
	for _, item := range stored {
		replaced := false
		for i := range out {
			if id(out[i]) == id(item) {
				out[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, item)
		}
	}
	return out
}

// normalizePopular keeps the popularity invariant after a merge. A default plan can
// bring its own flag next to a stored popular plan; the stored choice wins.
func normalizePopular(subs *model.SubscriptionSettings, stored []model.Plan) {
	if subs.PopularCount() <= 1 {
		return
	}
	for _, p := range stored {
		if p.IsPopular {
			subs.MarkPopular(p.ID)
			return
		}
	}
	for _, p := range subs.Plans {
		if p.IsPopular {
			subs.MarkPopular(p.ID)
			return
		}
	}
}
