package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
	"github.com/dmarquezf/bazaar-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "world", envelope.Data["hello"])
}

func TestWritePagedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePaged(rec, []int{1, 2}, pagination.Meta{Total: 5, Page: 1, TotalPages: 3, HasMore: true})

	var envelope struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		TotalPages int   `json:"total_pages"`
		HasMore    bool  `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 5, envelope.Total)
	assert.Equal(t, 1, envelope.Page)
	assert.Equal(t, 3, envelope.TotalPages)
	assert.True(t, envelope.HasMore)
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found keeps caller message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "product not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   string(pkgerrors.CodeNotFound),
			wantMsg:    "product not found",
		},
		{
			name:       "conflict keeps caller message",
			err:        pkgerrors.New(pkgerrors.CodeConflict, "username already taken"),
			wantStatus: http.StatusConflict,
			wantCode:   string(pkgerrors.CodeConflict),
			wantMsg:    "username already taken",
		},
		{
			name:       "empty cart is a 404",
			err:        pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty"),
			wantStatus: http.StatusNotFound,
			wantCode:   string(pkgerrors.CodeEmptyCart),
			wantMsg:    "cart is empty",
		},
		{
			name:       "rate limit is a 429",
			err:        pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   string(pkgerrors.CodeRateLimit),
			wantMsg:    "too many attempts",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			envelope := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, envelope.Error.Code)
			assert.Equal(t, tc.wantMsg, envelope.Error.Message)
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: duplicate key"), "create user")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "duplicate key")
	assert.NotContains(t, envelope.Error.Message, "create user")
}

func TestWriteErrorWrapsForeignErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Error.Code)
}

func TestWriteErrorIncludesOutOfStockDetails(t *testing.T) {
	type line struct {
		ProductID string `json:"product_id"`
		Remaining int    `json:"remaining_stock"`
	}

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock").
		WithDetails([]line{{ProductID: "p1", Remaining: 2}})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details []line `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeOutOfStock), envelope.Error.Code)
	require.Len(t, envelope.Error.Details, 1)
	assert.Equal(t, 2, envelope.Error.Details[0].Remaining)
}
