package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"restopos/internal/domain"
	"restopos/internal/dto"
	apperrors "restopos/internal/errors"
	fake "restopos/internal/testutil"
)

func newTestClient(t *testing.T, backend *fake.Backend, session Session, nav Navigator) *Client {
	t.Helper()
	return New(Config{
		BaseURL: backend.URL(),
		Timeout: 5 * time.Second,
		Breaker: DefaultBreakerConfig(),
	}, session, nav, nil, zap.NewNop())
}

func TestDo_AttachesBearerTokenAndRequestID(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusOK, `{"id":1,"name":"Ana","email":"ana@resto.test","role":"cashier"}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok-123"), &fake.Navigator{})

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, user.Role)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer tok-123", reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusOK, `{"token":"fresh","user":{"id":2,"name":"Chef","email":"c@r.test","role":"chef"}}`)
	})

	client := newTestClient(t, backend, fake.NewSession(""), &fake.Navigator{})

	token, user, err := client.Login(context.Background(), "c@r.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, domain.RoleChef, user.Role)
	assert.Empty(t, backend.Requests()[0].Authorization)
}

func TestLogin_WrappedAccessToken(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusOK, `{"data":{"access_token":"abc","user":{"id":3,"name":"W","email":"w@r.test","role":"waiter"}}}`)
	})

	client := newTestClient(t, backend, fake.NewSession(""), &fake.Navigator{})

	token, user, err := client.Login(context.Background(), "w@r.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, domain.RoleWaiter, user.Role)
}

func TestDo_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
	})

	session := fake.NewSession("stale")
	nav := &fake.Navigator{}
	client := newTestClient(t, backend, session, nav)

	_, err := client.ListOrders(context.Background(), domain.OrderFilter{})
	require.Error(t, err)

	ue, ok := apperrors.IsUnauthorizedError(err)
	require.True(t, ok)
	assert.Equal(t, "Unauthenticated.", ue.Message)
	assert.Empty(t, session.Token())
	assert.Equal(t, 1, session.Cleared)
	assert.Equal(t, 1, nav.RootVisits())
}

func TestLogin_WrongPasswordKeepsSessionAndShowsServerMessage(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	})

	session := fake.NewSession("previous")
	nav := &fake.Navigator{}
	client := newTestClient(t, backend, session, nav)

	_, _, err := client.Login(context.Background(), "ana@resto.test", "wrong")
	require.Error(t, err)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
	assert.Equal(t, "Invalid credentials", apperrors.UserMessage(err))
	assert.Zero(t, session.Cleared)
	assert.Equal(t, "previous", session.Token())
	assert.Zero(t, nav.RootVisits())
}

func TestDo_ForbiddenSurfacesMessage(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusForbidden, `{"message":"Only admins can manage users"}`)
	})

	session := fake.NewSession("tok")
	nav := &fake.Navigator{}
	client := newTestClient(t, backend, session, nav)

	_, err := client.ListUsers(context.Background())
	fe, ok := apperrors.IsForbiddenError(err)
	require.True(t, ok)
	assert.Equal(t, "Only admins can manage users", fe.Message)
	assert.Equal(t, "tok", session.Token())
	assert.Zero(t, nav.RootVisits())
}

func TestDo_UnprocessableBecomesValidationError(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/tables", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusUnprocessableEntity,
			`{"message":"The table number has already been taken.","errors":{"table_number":["The table number has already been taken."]}}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	_, err := client.CreateTable(context.Background(), dto.TableRequest{Number: "T1", Capacity: 4})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "The table number has already been taken.", ve.Message)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "table_number", ve.Details[0].Field)
}

func TestDo_OtherClientErrorKeepsServerMessage(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusBadRequest, `{"message":"Menu item Es Teh is not available"}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	_, err := client.CreateOrder(context.Background(), dto.CreateOrderRequest{OrderType: "takeaway"})
	require.Error(t, err)
	assert.Equal(t, "Menu item Es Teh is not available", apperrors.UserMessage(err))
}

func TestDo_ServerErrorIsAPIError(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/tables", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusInternalServerError, `{"message":"Server Error"}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	_, err := client.ListTables(context.Background())
	ae, ok := apperrors.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.Equal(t, 1, backend.Count(http.MethodGet, "/tables"), "no automatic retry")
}

func TestDo_UnreachableServerIsNetworkError(t *testing.T) {
	backend := fake.NewBackend(t)
	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})
	backend.Server.Close()

	_, err := client.KitchenOrders(context.Background())
	_, ok := apperrors.IsNetworkError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ConnectionMessage, apperrors.UserMessage(err))
}

func TestDo_OpenBreakerReportsNetworkError(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/tables", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 2
	cfg.Timeout = time.Minute
	client := New(Config{BaseURL: backend.URL(), Timeout: time.Second, Breaker: cfg},
		fake.NewSession("tok"), &fake.Navigator{}, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := client.ListTables(context.Background())
		_, ok := apperrors.IsAPIError(err)
		require.True(t, ok)
	}

	_, err := client.ListTables(context.Background())
	_, ok := apperrors.IsNetworkError(err)
	assert.True(t, ok)
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/tables"))
}

func TestDo_CanceledContextIsNotNetworkError(t *testing.T) {
	backend := fake.NewBackend(t)
	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.KitchenOrders(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, ok := apperrors.IsNetworkError(err)
	assert.False(t, ok)
}

func TestListOrders_FiltersAndShapes(t *testing.T) {
	bodies := []string{
		`[{"id":1,"status":"pending","order_type":"dine_in","total":"110000"}]`,
		`{"data":[{"id":1,"status":"pending","order_type":"dine_in","total":110000}]}`,
		`{"data":{"current_page":1,"data":[{"id":1,"status":"pending","order_type":"dine_in","total":110000}]}}`,
		`{"orders":[{"id":1,"status":"pending","order_type":"dine_in","total":110000}]}`,
	}

	for _, body := range bodies {
		backend := fake.NewBackend(t)
		var query string
		backend.Router.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			fake.WriteJSON(w, http.StatusOK, body)
		})

		client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})
		orders, err := client.ListOrders(context.Background(), domain.OrderFilter{
			Status:    domain.OrderStatusPending,
			OrderType: domain.OrderTypeDineIn,
			Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err, body)
		require.Len(t, orders, 1)
		assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
		assert.True(t, decimal.NewFromInt(110000).Equal(orders[0].Total))
		assert.Equal(t, "date=2026-03-14&order_type=dine_in&status=pending", query)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	backend := fake.NewBackend(t)
	var sent string
	backend.Router.Put("/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		sent = string(b)
		fake.WriteJSON(w, http.StatusOK, `{"data":{"id":`+chi.URLParam(r, "id")+`,"status":"preparing"}}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	o, err := client.UpdateOrderStatus(context.Background(), 9, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, int64(9), o.ID)
	assert.Equal(t, domain.OrderStatusPreparing, o.Status)
	assert.JSONEq(t, `{"status":"preparing"}`, sent)
}

func TestCreateMenuItem_Multipart(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Post("/menu-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "PUT", r.FormValue("_method"))
		assert.Equal(t, "Nasi Goreng", r.FormValue("name"))
		assert.Equal(t, "35000", r.FormValue("price"))
		f, hdr, err := r.FormFile("image")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "nasi.jpg", hdr.Filename)
		}
		fake.WriteJSON(w, http.StatusOK, `{"menu_item":{"id":4,"name":"Nasi Goreng","price":"35000","is_available":true}}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	item, err := client.UpdateMenuItem(context.Background(), 4, dto.MenuItemRequest{
		CategoryID:  1,
		Name:        "Nasi Goreng",
		Price:       decimal.NewFromInt(35000),
		IsAvailable: true,
		ImageName:   "nasi.jpg",
		Image:       []byte("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.ID)
	assert.True(t, item.IsAvailable)
}

func TestListUsers_UnknownRoleRejected(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusOK, `{"users":[{"id":1,"role":"admin"},{"id":2,"role":"owner"}]}`)
	})

	client := newTestClient(t, backend, fake.NewSession("tok"), &fake.Navigator{})

	_, err := client.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "owner"))
}

func TestMetrics_CountRequests(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusOK, `[]`)
	})

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := New(Config{BaseURL: backend.URL(), Timeout: time.Second, Breaker: DefaultBreakerConfig()},
		fake.NewSession("tok"), &fake.Navigator{}, metrics, zap.NewNop())

	cats, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/categories", "200")))
}

func TestDo_TracesCallsAndPropagatesContext(t *testing.T) {
	backend := fake.NewBackend(t)
	backend.Router.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		fake.WriteJSON(w, http.StatusNotFound, `{"message":"Order not found"}`)
	})

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	client := New(Config{
		BaseURL:        backend.URL(),
		Timeout:        time.Second,
		Breaker:        DefaultBreakerConfig(),
		TracerProvider: tp,
	}, fake.NewSession("tok"), &fake.Navigator{}, nil, zap.NewNop())

	_, err := client.GetOrder(context.Background(), 9)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /orders/{id}", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "Order not found", spans[0].Status.Description)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].TraceParent, spans[0].SpanContext.TraceID().String())
}
