package integration

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/rgehrsitz/bia/internal/cache"
	"github.com/rgehrsitz/bia/internal/logging"
	"github.com/rgehrsitz/bia/internal/population"
	"github.com/rgehrsitz/bia/internal/server"
)

func TestServerRoundTrip(t *testing.T) {
	cfg, sample := loadExample(t)

	log := logging.New(io.Discard, logrus.InfoLevel.String())
	srv := server.New(nil, cache.NewMemoryStore(16), sample, log)

	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	post := func(path string, body []byte) (int, []byte) {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI("http://bia" + path)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.SetBody(body)
		require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
		return resp.StatusCode(), append([]byte(nil), resp.Body()...)
	}

	body, err := json.Marshal(map[string]any{"inputs": cfg.Scenarios[0].Inputs})
	require.NoError(t, err)

	status, raw := post("/v1/projection", body)
	require.Equal(t, fasthttp.StatusOK, status, string(raw))

	var resp server.ProjectionResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Len(t, resp.Results, 5)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, len(sample), resp.SampleSize)

	status, _ = post("/v1/validate", []byte(`{"uptake_rate":[0.1]}`))
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, status)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)
	req.SetRequestURI("http://bia/v1/population")
	require.NoError(t, client.DoTimeout(req, res, 5*time.Second))
	require.Equal(t, fasthttp.StatusOK, res.StatusCode())

	var stats population.Stats
	require.NoError(t, json.Unmarshal(res.Body(), &stats))
	assert.Equal(t, len(sample), stats.Count)
}
