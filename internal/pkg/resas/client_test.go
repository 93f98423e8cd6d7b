package resas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compositionBody = `{"message":null,"result":{"boundaryYear":2020,"data":[
	{"label":"総人口","data":[{"year":1980,"value":12817},{"year":1985,"value":12707}]},
	{"label":"年少人口","data":[{"year":1980,"value":2906,"rate":22.67},{"year":1985,"value":2769,"rate":21.79}]}
]}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1", Timeout: time.Second, Retries: 2})
	require.NoError(t, err)
	return c
}

func TestFetchPrefectures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prefectures", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(constants.HeaderAPIKey))
		_, _ = w.Write([]byte(`{"message":null,"result":[{"prefCode":1,"prefName":"北海道"},{"prefCode":2,"prefName":"青森県"}]}`))
	})

	resp, err := c.FetchPrefectures(context.Background())
	require.NoError(t, err)

	regions := resp.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, domain.Region{Code: 2, Name: "青森県", StrokeColor: domain.Palette[1]}, regions[1])
}

func TestFetchComposition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/population/composition/perYear", r.URL.Path)
		assert.Equal(t, "13", r.URL.Query().Get("prefCode"))
		assert.Equal(t, "-", r.URL.Query().Get("cityCode"))
		_, _ = w.Write([]byte(compositionBody))
	})

	resp, err := c.FetchComposition(context.Background(), 13)
	require.NoError(t, err)

	composition := resp.ToComposition()
	require.Len(t, composition[domain.CategoryTotal], 2)
	assert.Equal(t, int64(12707), composition[domain.CategoryTotal][1].Value)
	assert.Equal(t, "22.67", composition[domain.CategoryYouth][0].Rate.String())
}

func TestFetchCompositionMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"missing data":  `{"message":null,"result":{"boundaryYear":2020}}`,
		"missing value": `{"message":null,"result":{"data":[{"label":"総人口","data":[{"year":1980}]}]}}`,
		"wrong type":    `{"message":null,"result":{"data":"nope"}}`,
		"not json":      `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.FetchComposition(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, constants.ErrMalformedResponse), err.Error())
		})
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(compositionBody))
	})

	_, err := c.FetchComposition(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.FetchPrefectures(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrUpstream))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchUpstreamMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":"403","message":"Forbidden.","description":""}`))
	})

	_, err := c.FetchPrefectures(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrUpstream))
	assert.Contains(t, err.Error(), "Forbidden.")
}
