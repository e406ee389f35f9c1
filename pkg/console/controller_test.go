package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"palika-console/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// countedAPI builds a ResourceAPI over an in-memory slice with call
// counters, so tests can assert which calls never happen.
type countedAPI struct {
	mu      sync.Mutex
	items   []Department
	lists   int
	creates int
	updates int
	deletes int
}

func (a *countedAPI) resource() ResourceAPI[Department] {
	return ResourceAPI[Department]{
		List: func(ctx context.Context) ([]Department, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.lists++
			out := make([]Department, len(a.items))
			copy(out, a.items)
			return out, nil
		},
		Create: func(ctx context.Context, form validation.Values) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.creates++
			a.items = append(a.items, Department{
				ID:   uint(len(a.items) + 1),
				Name: form["name"].(string),
				Code: form["code"].(string),
			})
			return nil
		},
		Update: func(ctx context.Context, id uint, form validation.Values) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.updates++
			return nil
		},
		Delete: func(ctx context.Context, id uint) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.deletes++
			for i, d := range a.items {
				if d.ID == id {
					a.items = append(a.items[:i], a.items[i+1:]...)
					break
				}
			}
			return nil
		},
	}
}

func departmentTestController(api *countedAPI, notifier Notifier, confirm bool) *ListController[Department] {
	return NewListController(ControllerConfig[Department]{
		Name:   "department",
		Schema: validation.DepartmentSchema,
		API:    api.resource(),
		ID:     func(d Department) uint { return d.ID },
		Form: func(d Department) validation.Values {
			return validation.Values{
				"name":        d.Name,
				"code":        d.Code,
				"head":        d.Head,
				"description": d.Description,
			}
		},
		Notifier:  notifier,
		Confirmer: ConfirmerFunc(func(string) bool { return confirm }),
	})
}

func TestControllerInvalidSubmitSkipsNetwork(t *testing.T) {
	api := &countedAPI{}
	ctrl := departmentTestController(api, &recordingNotifier{}, true)

	ctrl.OpenCreate()
	ctrl.SetField("name", "Health")
	// code, head and description left empty

	err := ctrl.Submit(context.Background())
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "code")
	assert.Contains(t, errs, "head")

	assert.Zero(t, api.creates, "an invalid form must never reach the network")
	assert.Zero(t, api.updates)
	assert.Equal(t, ModeCreate, ctrl.Mode(), "the form stays open for correction")
}

func TestControllerCreateReloadsList(t *testing.T) {
	api := &countedAPI{}
	notifier := &recordingNotifier{}
	ctrl := departmentTestController(api, notifier, true)

	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.OpenCreate()
	ctrl.SetField("name", "Health")
	ctrl.SetField("code", "HLT")
	ctrl.SetField("head", "Dr. Rai")
	ctrl.SetField("description", "Public health programs")

	require.NoError(t, ctrl.Submit(context.Background()))

	assert.Equal(t, 1, api.creates)
	assert.Equal(t, ModeClosed, ctrl.Mode())
	assert.Equal(t, []string{"department saved"}, notifier.successes)

	// The list is a fresh server read containing the new entity once
	count := 0
	for _, d := range ctrl.Items() {
		if d.Code == "HLT" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestControllerSetFieldValidatesOnChange(t *testing.T) {
	ctrl := departmentTestController(&countedAPI{}, &recordingNotifier{}, true)
	ctrl.OpenCreate()

	ctrl.SetField("name", "")
	assert.Equal(t, "Department name is required", ctrl.FieldErrors()["name"])

	ctrl.SetField("name", "Health")
	assert.NotContains(t, ctrl.FieldErrors(), "name")
}

func TestControllerOpenEditNotPermitted(t *testing.T) {
	api := &countedAPI{}
	notifier := &recordingNotifier{}
	ctrl := NewListController(ControllerConfig[Department]{
		Name:      "department",
		Schema:    validation.DepartmentSchema,
		API:       api.resource(),
		ID:        func(d Department) uint { return d.ID },
		Form:      func(d Department) validation.Values { return validation.Values{} },
		CanModify: func(Department) bool { return false },
		Notifier:  notifier,
	})

	err := ctrl.OpenEdit(Department{ID: 1, Name: "Health"})
	assert.ErrorIs(t, err, ErrNotPermitted)
	assert.Equal(t, ModeClosed, ctrl.Mode())
	assert.NotEmpty(t, notifier.lastError())
}

func TestControllerRemoveDeclined(t *testing.T) {
	api := &countedAPI{items: []Department{{ID: 1, Name: "Health"}}}
	ctrl := departmentTestController(api, &recordingNotifier{}, false)

	err := ctrl.Remove(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConfirmationDeclined)
	assert.Zero(t, api.deletes, "a declined prompt must not delete anything")
}

func TestControllerRemoveBeforeRemoveGuard(t *testing.T) {
	api := &countedAPI{items: []Department{{ID: 1}}}
	notifier := &recordingNotifier{}
	confirmed := false
	ctrl := NewListController(ControllerConfig[Department]{
		Name:   "user",
		Schema: validation.DepartmentSchema,
		API:    api.resource(),
		ID:     func(d Department) uint { return d.ID },
		Form:   func(d Department) validation.Values { return validation.Values{} },
		BeforeRemove: func(id uint) error {
			return ErrSelfDelete
		},
		Notifier: notifier,
		Confirmer: ConfirmerFunc(func(string) bool {
			confirmed = true
			return true
		}),
	})

	err := ctrl.Remove(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.False(t, confirmed, "the guard runs before the prompt")
	assert.Zero(t, api.deletes)
	assert.Equal(t, ErrSelfDelete.Error(), notifier.lastError())
}

func TestControllerRemoveWithoutConfirmerDeclines(t *testing.T) {
	api := &countedAPI{items: []Department{{ID: 1, Name: "Health"}}}
	ctrl := NewListController(ControllerConfig[Department]{
		Name:   "department",
		Schema: validation.DepartmentSchema,
		API:    api.resource(),
		ID:     func(d Department) uint { return d.ID },
		Form:   func(d Department) validation.Values { return validation.Values{} },
	})

	err := ctrl.Remove(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConfirmationDeclined)
	assert.Zero(t, api.deletes)
}

func TestControllerRemoveUnsupported(t *testing.T) {
	ctrl := NewListController(ControllerConfig[Department]{
		Name:   "report",
		Schema: validation.ReportSchema,
		API: ResourceAPI[Department]{
			List: func(ctx context.Context) ([]Department, error) { return nil, nil },
		},
		ID:       func(d Department) uint { return d.ID },
		Form:     func(d Department) validation.Values { return validation.Values{} },
		Notifier: &recordingNotifier{},
	})

	err := ctrl.Remove(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDeleteUnsupported)
}

func TestControllerStaleLoadDropped(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   int
		started = make(chan struct{})
		release = make(chan struct{})
	)
	ctrl := NewListController(ControllerConfig[Department]{
		Name:   "department",
		Schema: validation.DepartmentSchema,
		API: ResourceAPI[Department]{
			List: func(ctx context.Context) ([]Department, error) {
				mu.Lock()
				calls++
				n := calls
				mu.Unlock()
				if n == 1 {
					close(started)
					<-release
					return []Department{{ID: 1, Name: "Old"}}, nil
				}
				return []Department{{ID: 2, Name: "New"}}, nil
			},
		},
		ID:       func(d Department) uint { return d.ID },
		Form:     func(d Department) validation.Values { return validation.Values{} },
		Notifier: &recordingNotifier{},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.Load(context.Background())
	}()

	<-started
	require.NoError(t, ctrl.Load(context.Background()))

	close(release)
	<-done

	items := ctrl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "New", items[0].Name, "the slow first response must not clobber the newer list")
}

func TestExpenditureFormInvalidAmountSkipsNetwork(t *testing.T) {
	puts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		puts++
		writeEnvelope(w, http.StatusOK, true, Budget{ID: 1}, "")
	}))
	defer server.Close()

	store := NewMemoryTokenStore()
	client := NewClient(server.URL, store)
	notifier := &recordingNotifier{}
	form := NewExpenditureForm(client, notifier)

	err := form.Submit(context.Background(), 1, validation.Values{
		"amount":      "-5",
		"description": "bad line",
		"date":        "2026-04-01",
	})
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "amount")
	assert.Zero(t, puts, "a negative amount must never issue the request")
}

func TestExpenditureFormSubmit(t *testing.T) {
	puts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		puts++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/budgets/1/expenditure", r.URL.Path)

		var input ExpenditureInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "2500", input.Amount.String())
		assert.Equal(t, "Road gravel", input.Description)

		writeEnvelope(w, http.StatusOK, true, Budget{ID: 1}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryTokenStore())
	notifier := &recordingNotifier{}
	form := NewExpenditureForm(client, notifier)

	err := form.Submit(context.Background(), 1, validation.Values{
		"amount":      "2500",
		"description": "Road gravel",
		"date":        "2026-04-01",
		"category":    "materials",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, puts)
	assert.Equal(t, []string{"Expenditure recorded"}, notifier.successes)
}

func TestUserControllerSelfDeleteBlocked(t *testing.T) {
	deletes := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/user", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, User{ID: 7, Email: "admin@palika.gov.np", Role: "admin"}, "")
	})
	mux.HandleFunc("/users/7", func(w http.ResponseWriter, r *http.Request) {
		deletes++
		writeEnvelope(w, http.StatusOK, true, nil, "")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("tok-1"))
	client := NewClient(server.URL, store)
	session := NewSession(client, store)
	require.NoError(t, session.Reload(context.Background()))
	require.True(t, session.IsAuthenticated())

	ctrl := NewUserController(client, session, &recordingNotifier{}, ConfirmerFunc(func(string) bool { return true }))

	err := ctrl.Remove(context.Background(), 7)
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.Zero(t, deletes, "deleting your own account must never leave the client")
}

func TestDepartmentControllerNonAdminCannotEdit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/user", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, User{ID: 3, Email: "staff@palika.gov.np", Role: "staff"}, "")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("tok-1"))
	client := NewClient(server.URL, store)
	session := NewSession(client, store)
	require.NoError(t, session.Reload(context.Background()))

	ctrl := NewDepartmentController(client, session, &recordingNotifier{}, ConfirmerFunc(func(string) bool { return true }))

	err := ctrl.OpenEdit(Department{ID: 1, Name: "Health"})
	assert.ErrorIs(t, err, ErrNotPermitted)
}
