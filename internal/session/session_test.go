package session_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/postdeck/internal/form"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/gateway/gatewaytest"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/session"
	"github.com/debemdeboas/postdeck/internal/store"
)

func loaded(t *testing.T, gw gateway.Gateway) *session.Session {
	t.Helper()
	s, err := session.New(session.NewID(), gw, 10)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded(context.Background()))
	return s
}

func ids(posts []model.Post) []model.PostID {
	out := make([]model.PostID, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestNewInvalidPageSize(t *testing.T) {
	_, err := session.New(session.NewID(), gatewaytest.NewFake(nil), 0)
	assert.Error(t, err)
}

func TestEnsureLoadedOnce(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(15))
	s := loaded(t, gw)
	require.NoError(t, s.EnsureLoaded(context.Background()))

	assert.Equal(t, []string{gateway.OpList}, gw.Calls())
	assert.True(t, s.Loaded())
}

func TestEnsureLoadedRetriesAfterFailure(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	gw.Fail(gateway.OpList, http.StatusServiceUnavailable)

	s, err := session.New(session.NewID(), gw, 10)
	require.NoError(t, err)

	err = s.EnsureLoaded(context.Background())
	require.Error(t, err)
	assert.True(t, gateway.IsTransportError(err))
	assert.False(t, s.Loaded())
	assert.Empty(t, s.View().Page.Items)

	gw.Recover(gateway.OpList)
	require.NoError(t, s.EnsureLoaded(context.Background()))
	assert.Len(t, s.View().Page.Items, 3)
}

func TestPagination(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(15)))

	v := s.View()
	assert.Equal(t, 1, v.Page.Number)
	assert.Equal(t, 2, v.Page.Count)
	assert.Equal(t, ids(gatewaytest.Seed(10)), ids(v.Page.Items))

	assert.Equal(t, 2, s.GotoPage(2))
	v = s.View()
	assert.Equal(t, []model.PostID{11, 12, 13, 14, 15}, ids(v.Page.Items))

	assert.Equal(t, 2, s.GotoPage(9))
	assert.Equal(t, 1, s.GotoPage(-1))
}

func TestPageClampedAfterDelete(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(11)))
	s.GotoPage(2)

	require.NoError(t, s.Delete(context.Background(), 11))

	v := s.View()
	assert.Equal(t, 1, v.Page.Number)
	assert.Equal(t, 1, v.Page.Count)
	assert.Len(t, v.Page.Items, 10)
}

func TestCreateFlow(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(100)))

	s.OpenCreate()
	require.NoError(t, s.SetCreateDraft("A", "B"))
	assert.True(t, s.View().Create.Open)

	post, err := s.SubmitCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Post{ID: 101, Title: "A", Body: "B"}, post)

	v := s.View()
	assert.False(t, v.Create.Open)
	assert.Empty(t, v.Create.Title)
	assert.Equal(t, 101, v.Page.Total)
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(5))
	s := loaded(t, gw)
	gw.Fail(gateway.OpCreate, http.StatusInternalServerError)

	s.OpenCreate()
	require.NoError(t, s.SetCreateDraft("A", "B"))
	_, err := s.SubmitCreate(context.Background())
	require.Error(t, err)

	v := s.View()
	assert.True(t, v.Create.Open)
	assert.Equal(t, "A", v.Create.Title)
	assert.Equal(t, "B", v.Create.Body)
	assert.Equal(t, 5, v.Page.Total)
}

func TestSetDraftOnClosedForm(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(nil))
	assert.ErrorIs(t, s.SetCreateDraft("A", "B"), form.ErrFormClosed)
	assert.ErrorIs(t, s.SetEditDraft("A", "B"), form.ErrFormClosed)
}

func TestEditFlow(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(10)))

	require.NoError(t, s.OpenEdit(5))
	v := s.View()
	assert.True(t, v.Edit.Open)
	assert.Equal(t, model.PostID(5), v.Edit.ID)
	assert.Equal(t, "title 5", v.Edit.Title)

	require.NoError(t, s.SetEditDraft("X", "Y"))
	post, err := s.SubmitEdit(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "X", post.Title)

	v = s.View()
	assert.False(t, v.Edit.Open)
	assert.Equal(t, "X", v.Page.Items[4].Title)
	assert.Equal(t, "Y", v.Page.Items[4].Body)
}

func TestEditFailureLeavesEntry(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(10))
	s := loaded(t, gw)
	gw.Fail(gateway.OpUpdate, http.StatusInternalServerError)

	require.NoError(t, s.OpenEdit(5))
	require.NoError(t, s.SetEditDraft("X", "Y"))
	_, err := s.SubmitEdit(context.Background(), 5)
	require.Error(t, err)

	v := s.View()
	assert.True(t, v.Edit.Open)
	assert.Equal(t, gatewaytest.Seed(10)[4], v.Page.Items[4])
}

func TestOpenEditUnknownID(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(3)))
	assert.ErrorIs(t, s.OpenEdit(42), store.ErrPostNotFound)
	assert.False(t, s.View().Edit.Open)
}

func TestSubmitEditWrongID(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	s := loaded(t, gw)

	_, err := s.SubmitEdit(context.Background(), 2)
	assert.ErrorIs(t, err, form.ErrFormClosed)

	require.NoError(t, s.OpenEdit(1))
	_, err = s.SubmitEdit(context.Background(), 2)
	assert.ErrorIs(t, err, session.ErrNotEditing)
	assert.Equal(t, []string{gateway.OpList}, gw.Calls())
}

func TestCancelEdit(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(3)))
	require.NoError(t, s.OpenEdit(1))
	require.NoError(t, s.SetEditDraft("X", "Y"))
	s.CancelEdit()

	v := s.View()
	assert.False(t, v.Edit.Open)
	assert.Equal(t, gatewaytest.Seed(3), v.Page.Items)
}

func TestDeleteUnknownID(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	s := loaded(t, gw)
	before := s.Version()

	require.NoError(t, s.Delete(context.Background(), 42))
	assert.Equal(t, gatewaytest.Seed(3), s.View().Page.Items)
	assert.Equal(t, before, s.Version())
	assert.Equal(t, []string{gateway.OpList, gateway.OpRemove}, gw.Calls())
}

func TestDeleteFailure(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	s := loaded(t, gw)
	gw.Fail(gateway.OpRemove, http.StatusInternalServerError)

	err := s.Delete(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, gateway.IsTransportError(err))
	assert.Len(t, s.View().Page.Items, 3)
}

func TestSubmitSurvivesCancelledRequest(t *testing.T) {
	s := loaded(t, gateway.New(gatewaytest.NewServer(t, gatewaytest.Seed(3)).URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Delete(ctx, 1))
	assert.Len(t, s.View().Page.Items, 2)
}

func TestReloadReplacesCollection(t *testing.T) {
	gw := gatewaytest.NewFake(gatewaytest.Seed(3))
	s := loaded(t, gw)

	s.OpenCreate()
	_, err := s.SubmitCreate(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.View().Page.Items, 4)

	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, s.View().Page.Items, 4)
	assert.Equal(t, []string{gateway.OpList, gateway.OpCreate, gateway.OpList}, gw.Calls())
}

func TestConcurrentIntents(t *testing.T) {
	s := loaded(t, gatewaytest.NewFake(gatewaytest.Seed(50)))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(id model.PostID) {
			defer wg.Done()
			_ = s.Delete(context.Background(), id)
		}(model.PostID(i))
		go func(page int) {
			defer wg.Done()
			s.GotoPage(page)
			_ = s.View()
		}(i % 5)
	}
	wg.Wait()

	v := s.View()
	assert.Equal(t, 30, v.Page.Total)
	assert.LessOrEqual(t, v.Page.Number, v.Page.Count)
}
