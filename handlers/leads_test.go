package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aegiscyber/portal-services/internal/clients"
	"github.com/aegiscyber/portal-services/internal/leads"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepo is an in-memory clients.Repository for handler tests.
type profileRepo struct {
	store map[string]*clients.Profile
}

func newProfileRepo() *profileRepo { return &profileRepo{store: map[string]*clients.Profile{}} }

func (r *profileRepo) UpsertBySubject(ctx context.Context, p *clients.Profile) (*clients.Profile, error) {
	now := time.Now().UTC()
	if existing, ok := r.store[p.Subject]; ok {
		p.CreatedAt = existing.CreatedAt
		p.ID = existing.ID
	} else {
		p.CreatedAt = now
		p.ID = fmt.Sprintf("profile_%d", len(r.store)+1)
	}
	p.UpdatedAt = now
	cp := *p
	r.store[p.Subject] = &cp
	return &cp, nil
}

func (r *profileRepo) GetBySubject(ctx context.Context, subject string) (*clients.Profile, error) {
	if p, ok := r.store[subject]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func newLeadsRouter() (*gin.Engine, *profileRepo) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	repo := newProfileRepo()
	h := NewLeadsHandler(leads.NewService(leads.NewMemoryRepository()), clients.NewService(repo))
	api := g.Group("/api")
	h.RegisterPublic(api)
	h.RegisterOperator(api)
	return g, repo
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func TestContactFormCreatesNewLead(t *testing.T) {
	g, _ := newLeadsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/contact",
		`{"name":"Jane Doe","email":"jane@x.com","company":"Acme","message":"Need a pentest","services":["penetration-testing"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var l leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Jane Doe", l.Name)
	assert.Equal(t, "jane@x.com", l.Email)
	assert.Equal(t, "Acme", l.Company)
	assert.Equal(t, leads.StatusNew, l.Status)
	assert.Empty(t, l.AssignedTo)
	assert.True(t, l.CreatedAt.Equal(l.UpdatedAt))
}

func TestContactFormRejectsMissingFields(t *testing.T) {
	g, _ := newLeadsRouter()

	// missing company
	w := doJSON(t, g, http.MethodPost, "/api/contact", `{"name":"Jane","email":"jane@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// invalid email
	w = doJSON(t, g, http.MethodPost, "/api/contact", `{"name":"Jane","email":"not-an-email","company":"Acme"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadStatusWorkflow(t *testing.T) {
	g, _ := newLeadsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/contact",
		`{"name":"Jane Doe","email":"jane@x.com","company":"Acme"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	time.Sleep(time.Millisecond)
	w = doJSON(t, g, http.MethodPatch, "/api/leads/"+created.ID+"/status", `{"status":"contacted"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/leads", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, leads.StatusContacted, list[0].Status)
	assert.True(t, list[0].UpdatedAt.After(created.UpdatedAt), "updatedAt must advance")

	// unrecognized status never reaches the store
	w = doJSON(t, g, http.MethodPatch, "/api/leads/"+created.ID+"/status", `{"status":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, g, http.MethodPatch, "/api/leads/missing/status", `{"status":"contacted"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadStatusFilter(t *testing.T) {
	g, _ := newLeadsRouter()

	for _, name := range []string{"a", "b"} {
		w := doJSON(t, g, http.MethodPost, "/api/contact",
			`{"name":"`+name+`","email":"`+name+`@x.com","company":"C"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, g, http.MethodGet, "/api/leads?status=new", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = doJSON(t, g, http.MethodGet, "/api/leads?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAndDeleteLead(t *testing.T) {
	g, _ := newLeadsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/contact", `{"name":"A","email":"a@x.com","company":"C"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var l leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))

	w = doJSON(t, g, http.MethodPost, "/api/leads/"+l.ID+"/assign", `{"assigneeId":"operator-7"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/leads/"+l.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "operator-7", got.AssignedTo)

	w = doJSON(t, g, http.MethodDelete, "/api/leads/"+l.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/leads/"+l.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvertLeadProvisionsProfile(t *testing.T) {
	g, repo := newLeadsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/contact", `{"name":"Jane Doe","email":"jane@x.com","company":"Acme"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var l leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))

	w = doJSON(t, g, http.MethodPost, "/api/leads/"+l.ID+"/convert", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "converted", resp["status"])
	require.Contains(t, resp, "profile")

	p, err := repo.GetBySubject(context.Background(), "lead:"+l.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "jane@x.com", p.Email)
	assert.Equal(t, "Acme", p.Company)

	// status change persisted
	w = doJSON(t, g, http.MethodGet, "/api/leads/"+l.ID, "")
	var got leads.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, leads.StatusConverted, got.Status)

	w = doJSON(t, g, http.MethodPost, "/api/leads/missing/convert", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
