package marvel

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
)

// ErrUnavailable is reported when the character catalog cannot answer.
// Callers propagate it or degrade to metadata-less display.
var ErrUnavailable = errors.New("character catalog unavailable")

// ErrCharacterNotFound is reported for an unknown character id.
var ErrCharacterNotFound = errors.New("character not found")

const (
	defaultBaseURL   = "https://gateway.marvel.com/v1/public"
	defaultCacheSize = 512
	searchPageSize   = 50
)

type Config struct {
	BaseURL    string `toml:"base_url" env:"MARVEL_BASE_URL"`
	PublicKey  string `toml:"public_key" env:"MARVEL_PUBLIC_KEY"`
	PrivateKey string `toml:"private_key" env:"MARVEL_PRIVATE_KEY"`
	CacheSize  int    `toml:"cache_size" env:"MARVEL_CACHE_SIZE"`
}

// Character is the display metadata for one card type. The card-type
// identifier used across the trading core is the character id.
type Character struct {
	ID          int64
	Name        string
	Description string
	Thumbnail   string
}

type apiThumbnail struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
}

type apiCharacter struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Thumbnail   apiThumbnail `json:"thumbnail"`
}

type apiEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Total   int            `json:"total"`
		Count   int            `json:"count"`
		Results []apiCharacter `json:"results"`
	} `json:"data"`
}

// Client talks to the Marvel character catalog. Lookups are cached:
// character metadata never changes within a process lifetime.
type Client struct {
	http       *resty.Client
	publicKey  string
	privateKey string
	cache      *lru.Cache
	now        func() time.Time

	// mu guards rng and totalCount; pack opening draws concurrently.
	mu         sync.Mutex
	rng        *rand.Rand
	totalCount int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create character cache: %w", err)
	}

	return &Client{
		http:       resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(10 * time.Second),
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		cache:      cache,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// authParams builds the ts/apikey/hash triple the catalog requires:
// hash = md5(ts + privateKey + publicKey).
func (c *Client) authParams() map[string]string {
	ts := fmt.Sprintf("%d", c.now().UnixNano())
	sum := md5.Sum([]byte(ts + c.privateKey + c.publicKey))
	return map[string]string{
		"ts":     ts,
		"apikey": c.publicKey,
		"hash":   hex.EncodeToString(sum[:]),
	}
}

// GetCharacter returns display metadata for one character id.
func (c *Client) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached.(*Character), nil
	}

	var envelope apiEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.authParams()).
		SetResult(&envelope).
		Get(fmt.Sprintf("/characters/%d", id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrCharacterNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if len(envelope.Data.Results) == 0 {
		return nil, ErrCharacterNotFound
	}

	character := toCharacter(envelope.Data.Results[0])
	c.cache.Add(id, character)
	return character, nil
}

// SearchCharacters asks the catalog for a name prefix page and ranks it
// fuzzily against the query, best match first.
func (c *Client) SearchCharacters(ctx context.Context, query string) ([]*Character, error) {
	var envelope apiEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.authParams()).
		SetQueryParam("nameStartsWith", query).
		SetQueryParam("limit", fmt.Sprintf("%d", searchPageSize)).
		SetResult(&envelope).
		Get("/characters")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	characters := make([]*Character, 0, len(envelope.Data.Results))
	for _, result := range envelope.Data.Results {
		character := toCharacter(result)
		c.cache.Add(character.ID, character)
		characters = append(characters, character)
	}
	return rankByName(characters, query), nil
}

// RandomCharacter draws one character uniformly from the catalog, used
// by pack opening. The catalog size is fetched once and reused.
func (c *Client) RandomCharacter(ctx context.Context) (*Character, error) {
	c.mu.Lock()
	total := c.totalCount
	c.mu.Unlock()
	if total == 0 {
		fetched, err := c.fetchTotal(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.totalCount = fetched
		c.mu.Unlock()
		total = fetched
	}

	c.mu.Lock()
	offset := c.rng.Intn(total)
	c.mu.Unlock()
	var envelope apiEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.authParams()).
		SetQueryParam("limit", "1").
		SetQueryParam("offset", fmt.Sprintf("%d", offset)).
		SetResult(&envelope).
		Get("/characters")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if len(envelope.Data.Results) == 0 {
		return nil, fmt.Errorf("%w: empty page at offset %d", ErrUnavailable, offset)
	}

	character := toCharacter(envelope.Data.Results[0])
	c.cache.Add(character.ID, character)
	return character, nil
}

func (c *Client) fetchTotal(ctx context.Context) (int, error) {
	var envelope apiEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.authParams()).
		SetQueryParam("limit", "1").
		SetResult(&envelope).
		Get("/characters")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if envelope.Data.Total == 0 {
		return 0, fmt.Errorf("%w: empty catalog", ErrUnavailable)
	}
	return envelope.Data.Total, nil
}

func toCharacter(payload apiCharacter) *Character {
	thumbnail := ""
	if payload.Thumbnail.Path != "" {
		thumbnail = payload.Thumbnail.Path + "." + payload.Thumbnail.Extension
	}
	return &Character{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Thumbnail:   thumbnail,
	}
}

// rankByName orders characters by fuzzy match quality against the
// query. Non-matching entries keep their catalog order after the
// matching ones.
func rankByName(characters []*Character, query string) []*Character {
	names := make([]string, len(characters))
	for i, character := range characters {
		names[i] = character.Name
	}

	matches := fuzzy.Find(query, names)
	matched := make(map[int]bool, len(matches))
	ranked := make([]*Character, 0, len(characters))
	for _, match := range matches {
		ranked = append(ranked, characters[match.Index])
		matched[match.Index] = true
	}

	rest := make([]*Character, 0, len(characters)-len(ranked))
	for i, character := range characters {
		if !matched[i] {
			rest = append(rest, character)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	return append(ranked, rest...)
}
