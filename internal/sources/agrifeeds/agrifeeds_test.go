package agrifeeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/pkg/models"
)

func rssFeed(items ...string) string {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Price Bulletins</title>`
	for _, item := range items {
		feed += item
	}
	return feed + `</channel></rss>`
}

func rssItem(title, description string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><description>%s</description><pubDate>%s</pubDate></item>`,
		title, description, published.Format(time.RFC1123Z))
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
}

func TestFetchExtractsPriceAndMarket(t *testing.T) {
	srv := feedServer(t, rssFeed(
		rssItem("Wheat prices touch Rs 2,150 at Azadpur mandi", "", time.Now()),
	))
	defer srv.Close()

	s := New([]string{srv.URL})
	p, err := s.Fetch(context.Background(), "Wheat", models.Location{State: "Delhi"})
	if err != nil {
		t.Fatal(err)
	}

	if p.CurrentPrice != 2150 {
		t.Errorf("CurrentPrice = %.2f, want 2150", p.CurrentPrice)
	}
	if p.MarketLocation != "Azadpur" {
		t.Errorf("MarketLocation = %q, want Azadpur", p.MarketLocation)
	}
	if p.Source != "agrifeeds" {
		t.Errorf("Source = %q, want agrifeeds", p.Source)
	}
}

func TestFetchRupeeSymbolAndDescription(t *testing.T) {
	srv := feedServer(t, rssFeed(
		rssItem("Daily mandi bulletin", "Onion quoted at ₹2500 in wholesale trade", time.Now()),
	))
	defer srv.Close()

	s := New([]string{srv.URL})
	p, err := s.Fetch(context.Background(), "Onion", models.Location{State: "Maharashtra"})
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentPrice != 2500 {
		t.Errorf("CurrentPrice = %.2f, want 2500", p.CurrentPrice)
	}
	if p.MarketLocation != "Maharashtra" {
		t.Errorf("MarketLocation = %q, want the caller's state when no mandi is named", p.MarketLocation)
	}
}

func TestFetchSkipsStaleBulletins(t *testing.T) {
	srv := feedServer(t, rssFeed(
		rssItem("Wheat at Rs 2150", "", time.Now().Add(-30*24*time.Hour)),
	))
	defer srv.Close()

	s := New([]string{srv.URL})
	_, err := s.Fetch(context.Background(), "Wheat", models.Location{State: "Delhi"})
	if !errors.Is(err, source.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData for a month-old bulletin", err)
	}
}

func TestFetchNoMentionIsNoData(t *testing.T) {
	srv := feedServer(t, rssFeed(
		rssItem("Monsoon outlook improves", "Sowing picks up across the plains", time.Now()),
	))
	defer srv.Close()

	s := New([]string{srv.URL})
	_, err := s.Fetch(context.Background(), "Wheat", models.Location{State: "Delhi"})
	if !errors.Is(err, source.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestFetchDeadFeedDoesNotHideNext(t *testing.T) {
	good := feedServer(t, rssFeed(
		rssItem("Wheat prices touch Rs 2150 at Karnal mandi", "", time.Now()),
	))
	defer good.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer dead.Close()

	s := New([]string{dead.URL, good.URL})
	p, err := s.Fetch(context.Background(), "Wheat", models.Location{State: "Delhi"})
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentPrice != 2150 {
		t.Errorf("CurrentPrice = %.2f, want 2150 from the second feed", p.CurrentPrice)
	}
}

func TestFetchUsesBulletinDate(t *testing.T) {
	published := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	srv := feedServer(t, rssFeed(
		rssItem("Wheat at Rs 2150", "", published),
	))
	defer srv.Close()

	s := New([]string{srv.URL})
	p, err := s.Fetch(context.Background(), "Wheat", models.Location{State: "Delhi"})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Date.Equal(published) {
		t.Errorf("Date = %v, want the bulletin's publish time %v", p.Date, published)
	}
}

func TestPingNoFeeds(t *testing.T) {
	s := New(nil)
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping should fail with no feeds configured")
	}
}
