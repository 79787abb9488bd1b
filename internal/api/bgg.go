package api

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"boardgame-tracker/internal/constants"

	"github.com/valyala/fasthttp"
)

// ErrQueued is returned while BGG is still preparing a collection export;
// callers should retry after a short delay.
var ErrQueued = fmt.Errorf("bgg request queued, retry later")

type BGGClient struct {
	client *fasthttp.Client
}

func NewBGGClient() *BGGClient {
	return &BGGClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type CollectionResponse struct {
	XMLName    xml.Name         `xml:"items"`
	TotalItems int              `xml:"totalitems,attr"`
	Items      []CollectionItem `xml:"item"`
}

type CollectionItem struct {
	ObjectID      string      `xml:"objectid,attr"`
	Subtype       string      `xml:"subtype,attr"` // "boardgame" or "boardgameexpansion"
	Name          string      `xml:"name"`
	YearPublished int         `xml:"yearpublished"`
	NumPlays      int         `xml:"numplays"`
	Status        ItemStatus  `xml:"status"`
	PrivateInfo   PrivateInfo `xml:"privateinfo"`
}

type ItemStatus struct {
	Own          int `xml:"own,attr"`
	PrevOwned    int `xml:"prevowned,attr"`
	WantToBuy    int `xml:"wanttobuy,attr"`
	Preordered   int `xml:"preordered,attr"`
	ForTrade     int `xml:"fortrade,attr"`
	WantToPlay   int `xml:"wanttoplay,attr"`
	Wishlist     int `xml:"wishlist,attr"`
	WishlistPrio int `xml:"wishlistpriority,attr"`
}

type PrivateInfo struct {
	PricePaid       float64 `xml:"pricepaid,attr"`
	CurrencyPaid    string  `xml:"pp_currency,attr"`
	AcquisitionDate string  `xml:"acquisitiondate,attr"` // YYYY-MM-DD
}

type PlaysResponse struct {
	XMLName xml.Name  `xml:"plays"`
	Total   int       `xml:"total,attr"`
	Page    int       `xml:"page,attr"`
	Plays   []PlayLog `xml:"play"`
}

type PlayLog struct {
	ID         string   `xml:"id,attr"`
	Date       string   `xml:"date,attr"` // YYYY-MM-DD
	Quantity   int      `xml:"quantity,attr"`
	Length     int      `xml:"length,attr"` // minutes, 0 when unrecorded
	Incomplete int      `xml:"incomplete,attr"`
	Location   string   `xml:"location,attr"`
	Item       PlayItem `xml:"item"`
	Players    []Player `xml:"players>player"`
}

type PlayItem struct {
	Name       string `xml:"name,attr"`
	ObjectType string `xml:"objecttype,attr"`
	ObjectID   string `xml:"objectid,attr"`
}

type Player struct {
	Username string `xml:"username,attr"`
	Name     string `xml:"name,attr"`
	Score    string `xml:"score,attr"`
	Win      int    `xml:"win,attr"`
}

// GetCollection fetches a user's collection with ownership stats and private
// info (price paid, acquisition date). Returns ErrQueued while BGG builds
// the export.
func (c *BGGClient) GetCollection(ctx context.Context, username string) (*CollectionResponse, error) {
	u := fmt.Sprintf("https://boardgamegeek.com/xmlapi2/collection?username=%s&stats=1&showprivate=1&version=0", url.QueryEscape(username))
	return doRequest[CollectionResponse](ctx, c, u)
}

// GetPlays fetches one page (100 entries) of a user's logged plays.
func (c *BGGClient) GetPlays(ctx context.Context, username string, page int) (*PlaysResponse, error) {
	u := fmt.Sprintf("https://boardgamegeek.com/xmlapi2/plays?username=%s&subtype=boardgame&page=%d", url.QueryEscape(username), page)
	return doRequest[PlaysResponse](ctx, c, u)
}

func doRequest[T any](ctx context.Context, client *BGGClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/xml")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusAccepted:
		return nil, ErrQueued
	default:
		return nil, fmt.Errorf("bgg returned status %d", resp.StatusCode())
	}

	var out T
	if err := xml.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode bgg response: %w", err)
	}
	return &out, nil
}
