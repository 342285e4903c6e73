package form_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/postdeck/internal/form"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/gateway/gatewaytest"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/store"
)

func seededStore(t *testing.T, n int) *store.Store {
	t.Helper()
	s := store.New()
	require.NoError(t, s.ReplaceAll(gatewaytest.Seed(n)))
	return s
}

func TestCreateFormLifecycle(t *testing.T) {
	f := form.NewCreateForm()
	assert.Equal(t, form.Closed, f.State())

	assert.ErrorIs(t, f.SetTitle("x"), form.ErrFormClosed)

	f.Open()
	assert.Equal(t, form.Open, f.State())
	require.NoError(t, f.SetTitle("A"))
	require.NoError(t, f.SetBody("B"))
	assert.Equal(t, model.NewDraft{Title: "A", Body: "B"}, f.Draft())

	f.Cancel()
	assert.Equal(t, form.Closed, f.State())
	assert.Equal(t, model.NewDraft{}, f.Draft())

	// Reopening starts from an empty draft.
	f.Open()
	assert.Equal(t, model.NewDraft{}, f.Draft())
}

func TestCreateFormOpenResetsDraft(t *testing.T) {
	f := form.NewCreateForm()
	f.Open()
	require.NoError(t, f.SetTitle("leftover"))

	f.Open()
	assert.Equal(t, model.NewDraft{}, f.Draft())
}

func TestCreateFormUnknownField(t *testing.T) {
	f := form.NewCreateForm()
	f.Open()
	assert.ErrorIs(t, f.Set("author", "me"), form.ErrUnknownField)
}

func TestCreateFormSubmitSuccess(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(100))
	posts := seededStore(t, 100)

	f := form.NewCreateForm()
	f.Open()
	require.NoError(t, f.SetTitle("A"))
	require.NoError(t, f.SetBody("B"))

	post, err := f.Submit(context.Background(), gw, posts)
	require.NoError(t, err)

	want := model.Post{ID: 101, Title: "A", Body: "B"}
	assert.Equal(t, want, post)
	assert.Equal(t, 101, posts.Len())
	assert.Equal(t, want, posts.Posts()[100])
	assert.Equal(t, form.Closed, f.State())
	assert.Equal(t, model.NewDraft{Title: "", Body: ""}, f.Draft())
}

func TestCreateFormSubmitEmptyFields(t *testing.T) {
	gw := gatewaytest.NewFake(nil)
	posts := store.New()

	f := form.NewCreateForm()
	f.Open()

	post, err := f.Submit(context.Background(), gw, posts)
	require.NoError(t, err)
	assert.Empty(t, post.Title)
	assert.Empty(t, post.Body)
	assert.Equal(t, 1, posts.Len())
	assert.Equal(t, []string{gateway.OpCreate}, gw.Calls())
}

func TestCreateFormSubmitFailure(t *testing.T) {
	gw := gatewaytest.NewFake(nil)
	gw.Fail(gateway.OpCreate, http.StatusInternalServerError)
	posts := seededStore(t, 3)

	f := form.NewCreateForm()
	f.Open()
	require.NoError(t, f.SetTitle("A"))

	_, err := f.Submit(context.Background(), gw, posts)
	require.Error(t, err)
	assert.True(t, gateway.IsTransportError(err))

	assert.Equal(t, gatewaytest.Seed(3), posts.Posts())
	assert.Equal(t, form.Open, f.State())
	assert.Equal(t, model.NewDraft{Title: "A"}, f.Draft())
}

func TestCreateFormSubmitDuplicateID(t *testing.T) {
	gw := gatewaytest.NewFake(nil)
	gw.SetNextID(2)
	posts := seededStore(t, 3)

	f := form.NewCreateForm()
	f.Open()

	_, err := f.Submit(context.Background(), gw, posts)
	require.ErrorIs(t, err, store.ErrDuplicatePost)
	assert.Equal(t, 3, posts.Len())
	assert.Equal(t, form.Open, f.State())
}

func TestCreateFormSubmitClosed(t *testing.T) {
	gw := gatewaytest.NewFake(nil)
	f := form.NewCreateForm()

	_, err := f.Submit(context.Background(), gw, store.New())
	assert.ErrorIs(t, err, form.ErrFormClosed)
	assert.Empty(t, gw.Calls())
}

func TestEditFormSeedsByValue(t *testing.T) {
	posts := seededStore(t, 5)
	original, ok := posts.Get(5)
	require.True(t, ok)

	f := form.NewEditForm()
	f.Open(original)
	require.NoError(t, f.SetTitle("X"))
	require.NoError(t, f.SetBody("Y"))

	stored, _ := posts.Get(5)
	assert.Equal(t, original, stored)
	assert.Equal(t, model.EditDraft{ID: 5, UserID: original.UserID, Title: "X", Body: "Y"}, f.Draft())
}

func TestEditFormSubmitSuccess(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(10))
	posts := seededStore(t, 10)
	post, _ := posts.Get(5)

	f := form.NewEditForm()
	f.Open(post)
	require.NoError(t, f.SetTitle("X"))
	require.NoError(t, f.SetBody("Y"))

	updated, err := f.Submit(context.Background(), gw, posts)
	require.NoError(t, err)

	want := model.Post{ID: 5, UserID: post.UserID, Title: "X", Body: "Y"}
	assert.Equal(t, want, updated)

	all := posts.Posts()
	expected := gatewaytest.Seed(10)
	expected[4] = want
	assert.Equal(t, expected, all)
	assert.Equal(t, form.Closed, f.State())
	assert.Equal(t, model.EditDraft{}, f.Draft())
}

func TestEditFormSubmitFailure(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(10))
	gw.Fail(gateway.OpUpdate, http.StatusInternalServerError)
	posts := seededStore(t, 10)
	post, _ := posts.Get(5)

	f := form.NewEditForm()
	f.Open(post)
	require.NoError(t, f.SetTitle("X"))
	require.NoError(t, f.SetBody("Y"))

	_, err := f.Submit(context.Background(), gw, posts)
	require.Error(t, err)

	stored, _ := posts.Get(5)
	assert.Equal(t, post, stored)
	assert.Equal(t, form.Open, f.State())
	assert.Equal(t, "X", f.Draft().Title)
}

func TestEditFormSubmitAfterLocalDelete(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	posts := seededStore(t, 3)
	post, _ := posts.Get(2)

	f := form.NewEditForm()
	f.Open(post)
	posts.RemoveByID(2)

	_, err := f.Submit(context.Background(), gw, posts)
	require.ErrorIs(t, err, store.ErrPostNotFound)
	assert.Equal(t, 2, posts.Len())
	assert.Equal(t, form.Open, f.State())
}

func TestEditFormClosedOperations(t *testing.T) {
	f := form.NewEditForm()
	assert.ErrorIs(t, f.SetBody("x"), form.ErrFormClosed)

	_, err := f.Submit(context.Background(), gatewaytest.NewFake(nil), store.New())
	assert.ErrorIs(t, err, form.ErrFormClosed)

	f.Cancel()
	assert.Equal(t, form.Closed, f.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", form.Open.String())
	assert.Equal(t, "closed", form.Closed.String())
}
