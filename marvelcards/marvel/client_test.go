package marvel

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		PublicKey:  "pub",
		PrivateKey: "priv",
	})
	require.NoError(t, err)
	return client
}

func characterJSON(id int64, name string) string {
	return fmt.Sprintf(`{"code":200,"data":{"total":1,"count":1,"results":[
		{"id":%d,"name":"%s","description":"desc","thumbnail":{"path":"http://img/%d","extension":"jpg"}}
	]}}`, id, name, id)
}

func TestGetCharacter(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/characters/1009368", r.URL.Path)
		fmt.Fprint(w, characterJSON(1009368, "Iron Man"))
	})

	character, err := client.GetCharacter(context.Background(), 1009368)
	require.NoError(t, err)
	assert.Equal(t, "Iron Man", character.Name)
	assert.Equal(t, "http://img/1009368.jpg", character.Thumbnail)

	// Second lookup comes from the cache.
	_, err = client.GetCharacter(context.Background(), 1009368)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestGetCharacter_signing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		ts := q.Get("ts")
		assert.NotEmpty(t, ts)
		assert.Equal(t, "pub", q.Get("apikey"))

		sum := md5.Sum([]byte(ts + "priv" + "pub"))
		assert.Equal(t, hex.EncodeToString(sum[:]), q.Get("hash"))
		fmt.Fprint(w, characterJSON(1, "Hulk"))
	})

	_, err := client.GetCharacter(context.Background(), 1)
	require.NoError(t, err)
}

func TestGetCharacter_notFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetCharacter(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestGetCharacter_serverError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetCharacter(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearchCharacters_ranksFuzzy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "spider", r.URL.Query().Get("nameStartsWith"))
		fmt.Fprint(w, `{"code":200,"data":{"total":3,"count":3,"results":[
			{"id":1,"name":"Spider-Girl","thumbnail":{"path":"p","extension":"jpg"}},
			{"id":2,"name":"Spider-Man","thumbnail":{"path":"p","extension":"jpg"}},
			{"id":3,"name":"Scorpion","thumbnail":{"path":"p","extension":"jpg"}}
		]}}`)
	})

	results, err := client.SearchCharacters(context.Background(), "spider")
	require.NoError(t, err)
	require.Len(t, results, 3)
	// The two Spiders outrank the non-matching entry.
	assert.Contains(t, []int64{1, 2}, results[0].ID)
	assert.Contains(t, []int64{1, 2}, results[1].ID)
	assert.Equal(t, int64(3), results[2].ID)
}

func TestRandomCharacter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, characterJSON(77, "Thor"))
	})

	character, err := client.RandomCharacter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(77), character.ID)
}
