package settings

import (
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/marianozunino/uploadpro/internal/db"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithEmptyStorageUsesDefaults(t *testing.T) {
	s := New(db.NewMemoryStorage())

	assert.Equal(t, Defaults(), s.Snapshot())
	assert.Equal(t, uint64(0), s.Revision())
	assert.Equal(t, "File Uploader Pro", s.Settings().SiteTitle)
	assert.Len(t, s.Ads(), 5)
	assert.Len(t, s.Subscriptions().Plans, 3)
}

func TestNewWithCorruptBlobUsesDefaults(t *testing.T) {
	storage := db.NewMemoryStorage()
	require.NoError(t, storage.Set(StorageKey, "{not json"))

	s := New(storage)
	assert.Equal(t, Defaults(), s.Snapshot())
}

func TestReconcileBackfillsMissingFields(t *testing.T) {
	raw := `{"settings":{"siteTitle":"Mine","maxFileSize":20},"pages":{"contact":{"email":"me@example.com"}}}`

	state, err := Reconcile([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Mine", state.Settings.SiteTitle)
	assert.Equal(t, 20, state.Settings.MaxFileSize)
	assert.Equal(t, 10, state.Settings.CountdownDuration)
	assert.Equal(t, DefaultSettings().SiteKeywords, state.Settings.SiteKeywords)
	assert.True(t, state.Settings.EnableStructuredData)

	assert.Equal(t, "me@example.com", state.Pages.Contact.Email)
	assert.Equal(t, DefaultPages().Contact.Phone, state.Pages.Contact.Phone)
	assert.Equal(t, DefaultPages().About, state.Pages.About)
	assert.Equal(t, DefaultAds(), state.Ads)
}

func TestReconcileAdsByID(t *testing.T) {
	raw := `{"ads":[{"id":"download-page-middle","unitId":"u-1","width":"300px","height":"250px"},{"id":"sidebar-new","unitId":"u-2","width":"1px","height":"1px"}]}`

	state, err := Reconcile([]byte(raw))
	require.NoError(t, err)

	require.Len(t, state.Ads, 6)
	assert.Equal(t, AdDownloadTop, state.Ads[0].ID)
	assert.Equal(t, model.AdConfig{ID: AdDownloadMiddle, UnitID: "u-1", Width: "300px", Height: "250px"}, state.Ads[1])
	assert.Equal(t, "sidebar-new", state.Ads[5].ID)
}

func TestReconcilePlansByID(t *testing.T) {
	raw := `{"subscriptions":{"plans":[{"id":"free","name":"Free","price":"$0","isPopular":true,"enabled":true},{"id":"team","name":"Team","price":"$30","enabled":true}]}}`

	state, err := Reconcile([]byte(raw))
	require.NoError(t, err)

	subs := state.Subscriptions
	require.Len(t, subs.Plans, 4, spew.Sdump(subs.Plans))
	assert.Equal(t, "Free", subs.Plans[0].Name)
	assert.Equal(t, "team", subs.Plans[3].ID)
	assert.Equal(t, 1, subs.PopularCount())

	free, _ := subs.Plan(model.PlanFree)
	assert.True(t, free.IsPopular)
	assert.Len(t, subs.PaymentGateways, 3)
}

func TestReconcileIsIdempotent(t *testing.T) {
	raw := `{"settings":{"siteTitle":"Once","siteKeywords":["a"]},"ads":[{"id":"x","unitId":"1"}],"subscriptions":{"paymentGateways":[{"id":"paypal","name":"PayPal","enabled":false}]}}`

	first, err := Reconcile([]byte(raw))
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := Reconcile(encoded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileNullSubtrees(t *testing.T) {
	state, err := Reconcile([]byte(`{"settings":null,"ads":null}`))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), state)
}

func TestUpdateRoundTrip(t *testing.T) {
	storage := db.NewMemoryStorage()
	s := New(storage)

	s.UpdateSettings(SettingsPatch{
		SiteTitle:         Ptr("Round Trip"),
		CountdownDuration: Ptr(3),
		MaintenanceMode:   Ptr(true),
	})
	s.UpdateAds([]model.AdConfig{{ID: AdDownloadTop, UnitID: "top-unit", Width: "100%", Height: "96px"}})
	require.NoError(t, s.UpdatePageContent(model.PageKeyAbout, "<p>about</p>"))
	require.NoError(t, s.UpdatePageContent(model.PageKeyContact, model.ContactPageContent{Title: "Hi"}))
	s.UpdateSubscriptions(SubscriptionsPatch{PaymentGateways: []model.PaymentGateway{{ID: model.GatewayCard, Name: "Card", Enabled: false}}})

	assert.Equal(t, uint64(5), s.Revision())

	reloaded := New(storage)
	got := reloaded.Snapshot()

	assert.Equal(t, "Round Trip", got.Settings.SiteTitle)
	assert.Equal(t, 3, got.Settings.CountdownDuration)
	assert.True(t, got.Settings.MaintenanceMode)
	assert.Equal(t, 5, got.Settings.PreDownloadDelay)
	assert.Equal(t, DefaultSettings().SiteDescription, got.Settings.SiteDescription)

	top, ok := reloaded.AdByID(AdDownloadTop)
	require.True(t, ok)
	assert.Equal(t, "top-unit", top.UnitID)
	_, ok = reloaded.AdByID(AdProfileSidebar)
	assert.True(t, ok)

	assert.Equal(t, "<p>about</p>", got.Pages.About)
	assert.Equal(t, DefaultPages().Privacy, got.Pages.Privacy)
	assert.Equal(t, "Hi", got.Pages.Contact.Title)

	card, _ := got.Subscriptions.Gateway(model.GatewayCard)
	assert.False(t, card.Enabled)
	assert.Len(t, got.Subscriptions.Plans, 3)
}

func TestWriteFailureKeepsInMemoryChange(t *testing.T) {
	storage := db.NewMemoryStorage()
	s := New(storage)
	storage.FailWrites = true

	s.UpdateSettings(SettingsPatch{SiteTitle: Ptr("Unsaved")})

	assert.Equal(t, "Unsaved", s.Settings().SiteTitle)
	_, err := storage.Get(StorageKey)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSetPopularPlan(t *testing.T) {
	s := New(db.NewMemoryStorage())

	require.NoError(t, s.SetPopularPlan(model.PlanEnterprise))

	subs := s.Subscriptions()
	assert.Equal(t, 1, subs.PopularCount())
	enterprise, _ := subs.Plan(model.PlanEnterprise)
	assert.True(t, enterprise.IsPopular)

	err := s.SetPopularPlan("missing")
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.Equal(t, uint64(1), s.Revision())
}

func TestUpdateSubscriptionsKeepsOnePopularPlan(t *testing.T) {
	s := New(db.NewMemoryStorage())

	s.UpdateSubscriptions(SubscriptionsPatch{Plans: []model.Plan{
		{ID: model.PlanFree, Name: "Free"},
		{ID: model.PlanPro, Name: "Pro", IsPopular: true},
		{ID: model.PlanEnterprise, Name: "Enterprise", IsPopular: true},
	}})

	subs := s.Subscriptions()
	require.Equal(t, 1, subs.PopularCount(), spew.Sdump(subs.Plans))
	pro, _ := subs.Plan(model.PlanPro)
	assert.True(t, pro.IsPopular)
}

func TestUpdatePageContentRejectsWrongType(t *testing.T) {
	s := New(db.NewMemoryStorage())

	assert.ErrorIs(t, s.UpdatePageContent(model.PageKeyAbout, 42), ErrInvalidPageContent)
	assert.ErrorIs(t, s.UpdatePageContent(model.PageKeyContact, "text"), ErrInvalidPageContent)
	assert.ErrorIs(t, s.UpdatePageContent("faq", "text"), ErrUnknownPage)
	assert.Equal(t, uint64(0), s.Revision())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(db.NewMemoryStorage())

	snap := s.Snapshot()
	snap.Settings.SiteKeywords[0] = "changed"
	snap.Subscriptions.Plans[0].Name = "changed"

	assert.Equal(t, "file sharing", s.Settings().SiteKeywords[0])
	assert.Equal(t, "مجاني", s.Subscriptions().Plans[0].Name)
}

func TestSubscribeReceivesOldAndNew(t *testing.T) {
	s := New(db.NewMemoryStorage())

	var calls []int
	unsubscribe := s.Subscribe(func(old, updated model.AppState) {
		calls = append(calls, updated.Settings.CountdownDuration-old.Settings.CountdownDuration)
	})

	s.UpdateSettings(SettingsPatch{CountdownDuration: Ptr(15)})
	unsubscribe()
	s.UpdateSettings(SettingsPatch{CountdownDuration: Ptr(20)})

	assert.Equal(t, []int{5}, calls)
}

func TestExportImport(t *testing.T) {
	src := New(db.NewMemoryStorage())
	src.UpdateSettings(SettingsPatch{SiteTitle: Ptr("Exported")})
	require.NoError(t, src.SetPopularPlan(model.PlanFree))

	data, err := src.Export()
	require.NoError(t, err)

	dst := New(db.NewMemoryStorage())
	require.NoError(t, dst.Import(data))

	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Error(t, dst.Import([]byte("nope")))
}
