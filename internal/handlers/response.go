package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Retriable bool   `json:"retriable,omitempty"`
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// readJSON decodes the body into dst. Decoder details are logged, the
// caller only gets a validation error.
func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		logger.Debug("[handlers] malformed request body", "path", string(ctx.Path()), "error", err)
		return model.Validation("request body is not valid JSON")
	}
	return nil
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("[handlers] response not encodable", "error", err)
		status, b = xhttp.StatusInternalServerError, []byte(`{"error":"internal error","kind":"unavailable"}`)
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// writeError maps the error kind onto a status. Only the user message
// reaches the body.
func writeError(ctx *xhttp.RequestCtx, err error) {
	kind := model.KindOf(err)
	body := errorResponse{Error: model.UserMessage(err), Kind: string(kind)}

	status := xhttp.StatusServiceUnavailable
	switch kind {
	case model.KindValidation:
		status = xhttp.StatusBadRequest
	case model.KindNotFound:
		status = xhttp.StatusNotFound
	case model.KindBalanceExceeded:
		status = xhttp.StatusConflict
	case model.KindConflict:
		status = xhttp.StatusConflict
		body.Retriable = model.IsRetriable(err)
	default:
		logger.Error("[handlers] request failed",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"store_id", xhttp.StoreID(ctx),
			"error", err)
	}
	writeJSON(ctx, status, body)
}

func pathParam(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(key)))
}

func queryInt(ctx *xhttp.RequestCtx, key string) (int, error) {
	v := query(ctx, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, model.Validation("%s must be an integer", key)
	}
	return n, nil
}

// queryPage reads limit and offset.
func queryPage(ctx *xhttp.RequestCtx) (int, int, error) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(ctx, "offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func queryDesc(ctx *xhttp.RequestCtx) bool {
	return strings.EqualFold(query(ctx, "order"), "desc")
}

func queryDecimal(ctx *xhttp.RequestCtx, key string) (*decimal.Decimal, error) {
	v := query(ctx, key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, model.Validation("%s must be a number", key)
	}
	return &d, nil
}

func queryTime(ctx *xhttp.RequestCtx, key string) (*time.Time, error) {
	v := query(ctx, key)
	if v == "" {
		return nil, nil
	}
	t, err := parseTime(v)
	if err != nil {
		return nil, model.Validation("%s must be RFC3339 or YYYY-MM-DD", key)
	}
	t = t.UTC()
	return &t, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
