package fakereevit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/lib/mytime"
)

const createBody = `{"amount":5000,"currency":"GHS","method":"mobile_money","country":"GH","reference":"order_1"}`

type sequenceUUIDer struct {
	mu   sync.Mutex
	next int
}

func (u *sequenceUUIDer) Create() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.next++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", u.next)
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, *WebService) {
	c := context.TODO()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	sut, cleanup, err := NewWebService(c, nower, &sequenceUUIDer{}, 0)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	router := mux.NewRouter()
	require.NoError(t, sut.RegisterEndpoints(c, router))

	return c, router, sut
}

func do(router *mux.Router, method string, url string, body string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Reevit-Key", "pk_test_123")
	for k, v := range headers {
		if v == "" {
			request.Header.Del(k)
			continue
		}
		request.Header.Set(k, v)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func createIntent(t *testing.T, router *mux.Router, idempotencyKey string) checkoutmodel.PaymentIntentResponse {
	response := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"Idempotency-Key": idempotencyKey})
	require.Contains(t, []int{200, 201}, response.Code)

	resp := checkoutmodel.PaymentIntentResponse{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &resp))
	return resp
}

func TestFakeReevit(t *testing.T) {

	t.Run("Create payment intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"Idempotency-Key": "idem_1"})

		// then
		assert.Equal(t, 201, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		resp := checkoutmodel.PaymentIntentResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &resp))
		assert.Equal(t, "pay_"+strings.Repeat("0", 31)+"1", resp.ID)
		assert.Equal(t, "hubtel", resp.Provider)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, int64(5000), resp.Amount)
		assert.Equal(t, int64(97), resp.FeeAmount)
		assert.Equal(t, int64(4903), resp.NetAmount)
		assert.Equal(t, "order_1", resp.Reference)
		assert.True(t, strings.HasPrefix(resp.ClientSecret, resp.ID+"_secret_"))
		assert.Len(t, resp.AvailablePSPs, 2)
		assert.Equal(t, int64(1), sut.Creations())
	})

	t.Run("Replay with same idempotency key", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// given
		first := createIntent(t, router, "idem_1")

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"Idempotency-Key": "idem_1"})

		// then
		assert.Equal(t, 200, response.Code)
		second := checkoutmodel.PaymentIntentResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &second))
		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), sut.Creations())
	})

	t.Run("Different idempotency keys create different intents", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// when
		first := createIntent(t, router, "idem_1")
		second := createIntent(t, router, "idem_2")

		// then
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, int64(2), sut.Creations())
	})

	t.Run("Concurrent creates with same key create once", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// when
		ids := make([]string, 16)
		wg := sync.WaitGroup{}
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				response := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"Idempotency-Key": "idem_same"})
				resp := checkoutmodel.PaymentIntentResponse{}
				_ = json.Unmarshal(response.Body.Bytes(), &resp)
				ids[i] = resp.ID
			}(i)
		}
		wg.Wait()

		// then
		assert.Equal(t, int64(1), sut.Creations())
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})

	t.Run("Create without public key", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"X-Reevit-Key": ""})

		// then
		assert.Equal(t, 403, response.Code)
		assert.JSONEq(t, `{"code":"unauthorized","message":"missing X-Reevit-Key header"}`, response.Body.String())
	})

	t.Run("Create with invalid body", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", `{"amount":`, nil)

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), `"code": "invalid_request"`)
	})

	t.Run("Create with non-JSON body", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", `amount=5000`, map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
		charset := do(router, http.MethodPost, "/v1/payments/intents", createBody, map[string]string{"Content-Type": "application/json; charset=utf-8"})

		// then
		assert.Equal(t, 415, response.Code)
		assert.JSONEq(t, `{"code":"unsupported_media_type","message":"request body must be application/json"}`, response.Body.String())
		assert.Equal(t, 201, charset.Code)
		assert.Equal(t, int64(1), sut.Creations())
	})

	t.Run("Create with invalid amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", `{"amount":0,"currency":"GHS","country":"GH"}`, nil)

		// then
		assert.Equal(t, 400, response.Code)
		assert.JSONEq(t, `{"code":"invalid_request","message":"amount must be positive, got 0"}`, response.Body.String())
	})

	t.Run("Create when no provider is available", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, sut := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", `{"amount":666,"currency":"GHS","country":"GH"}`, nil)

		// then
		assert.Equal(t, 502, response.Code)
		assert.JSONEq(t, `{"code":"psp_unavailable","message":"no payment provider available"}`, response.Body.String())
		assert.Equal(t, int64(0), sut.Creations())
	})

	t.Run("Create honours provider policy", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := do(router, http.MethodPost, "/v1/payments/intents", `{"amount":100,"currency":"NGN","country":"NG","policy":{"prefer":["flutterwave"]}}`, nil)

		// then
		assert.Equal(t, 201, response.Code)
		assert.Contains(t, response.Body.String(), `"provider": "flutterwave"`)
	})

	t.Run("Get payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		created := createIntent(t, router, "idem_1")

		// when
		response := do(router, http.MethodGet, "/v1/payments/"+created.ID, "", nil)

		// then
		assert.Equal(t, 200, response.Code)
		detail := checkoutmodel.PaymentDetailResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &detail))
		assert.Equal(t, created.ID, detail.ID)
		assert.Equal(t, "mobile_money", detail.Method)
		assert.Equal(t, "pending", detail.Status)
		assert.Equal(t, "2025-03-14T09:26:53Z", detail.CreatedAt)
		assert.Equal(t, checkoutmodel.SourceAPI, detail.Source)
	})

	t.Run("Get unknown payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := do(router, http.MethodGet, "/v1/payments/pay_unknown", "", nil)

		// then
		assert.Equal(t, 404, response.Code)
		assert.JSONEq(t, `{"code":"payment_not_found","message":"payment does not exist: pay_unknown"}`, response.Body.String())
	})

	t.Run("Confirm then cancel", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		created := createIntent(t, router, "idem_1")

		// when
		confirmed := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/confirm", "", nil)
		reconfirmed := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/confirm", "", nil)
		canceled := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/cancel", "", nil)

		// then
		assert.Equal(t, 200, confirmed.Code)
		assert.Contains(t, confirmed.Body.String(), `"status": "succeeded"`)
		assert.Equal(t, 200, reconfirmed.Code)
		assert.Equal(t, 409, canceled.Code)
		assert.Contains(t, canceled.Body.String(), `"code": "payment_final"`)
	})

	t.Run("Cancel pending payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		created := createIntent(t, router, "idem_1")

		// when
		response := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/cancel", "", nil)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"status": "canceled"`)
	})

	t.Run("Confirm intent with client secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		created := createIntent(t, router, "idem_1")

		// when
		wrong := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/confirm-intent?client_secret=nope", "", nil)
		missing := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/confirm-intent", "", nil)
		right := do(router, http.MethodPost, "/v1/payments/"+created.ID+"/confirm-intent?client_secret="+created.ClientSecret, "", nil)

		// then
		assert.Equal(t, 403, wrong.Code)
		assert.Contains(t, wrong.Body.String(), `"code": "invalid_client_secret"`)
		assert.Equal(t, 400, missing.Code)
		assert.Equal(t, 200, right.Code)
		assert.Contains(t, right.Body.String(), `"status": "succeeded"`)
	})

	t.Run("Create Hubtel session", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		created := createIntent(t, router, "idem_1")

		// when
		response := do(router, http.MethodPost, "/v1/payments/hubtel/sessions/"+created.ID+"?client_secret="+created.ClientSecret, "", nil)

		// then
		assert.Equal(t, 200, response.Code)
		session := checkoutmodel.HubtelSessionResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &session))
		assert.True(t, strings.HasPrefix(session.Token, "hst_"))
		assert.Equal(t, 300, session.ExpiresInSeconds)
		assert.Equal(t, mytime.ExampleTime.Unix()+300, session.ExpiresAt)
	})
}

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)

	// setup
	c, _, sut := setup(t, ctrl)

	// when
	err := sut.Ping(c)

	// then
	assert.NoError(t, err)
}
