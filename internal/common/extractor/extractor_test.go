package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-explorer/internal/domain"
)

func TestFetchJSONSetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	e := NewAPIExtractor(Config{})
	body, err := e.FetchJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "Mozilla/5.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetchJSONNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewAPIExtractor(Config{})
	_, err := e.FetchJSON(context.Background(), srv.URL)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)
	assert.Equal(t, srv.URL, terr.URL)
}

func TestFetchJSONConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	e := NewAPIExtractor(Config{})
	_, err := e.FetchJSON(context.Background(), url)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
	assert.Error(t, terr.Unwrap())
}

func TestDecodeList(t *testing.T) {
	page, err := DecodeList([]byte(` [{"a":1}, 2] `))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Empty(t, page.Next)

	page, err = DecodeList([]byte(`{"data":[{"a":1}],"links":{"next":"https://x/api?page=2"}}`))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "https://x/api?page=2", page.Next)

	page, err = DecodeList([]byte(`{"links":{"next":null}}`))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Next)

	_, err = DecodeList([]byte(`"nope"`))
	assert.Error(t, err)
	_, err = DecodeList([]byte(`[{`))
	assert.Error(t, err)
}

func TestRecord(t *testing.T) {
	_, ok := AsRecord([]byte(`"legal notice"`))
	assert.False(t, ok)

	rec, ok := AsRecord([]byte(`{"position":"Dev","company":null,"salary":5,"tags":["Go"]}`))
	require.True(t, ok)

	assert.True(t, rec.Has("company"))
	assert.False(t, rec.Has("location"))

	require.NotNil(t, rec.String("position"))
	assert.Equal(t, "Dev", *rec.String("position"))
	assert.Nil(t, rec.String("company"))
	assert.Nil(t, rec.String("salary"))
	assert.Nil(t, rec.String("location"))

	assert.Equal(t, domain.SkillsSequence, rec.Skills("tags").Kind)
	assert.Equal(t, domain.SkillsOther, rec.Skills("missing").Kind)
}
