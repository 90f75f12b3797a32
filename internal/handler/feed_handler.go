package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/affiliate"
	"github.com/hitoshi/jobboard/internal/model"
)

// AffiliateServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type AffiliateServiceInterface interface {
	// ProjectFeed はトークンで認証したアフィリエイト向けの求人フィードを返す。
	ProjectFeed(ctx context.Context, token string) (map[string]affiliate.JobSummary, error)
}

// FeedHandler はアフィリエイト向け求人フィードのHTTPハンドラー。
type FeedHandler struct {
	service AffiliateServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service AffiliateServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// atomFeed はAtom 1.0のフィードルート要素。
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Entries []atomEntry `xml:"entry"`
}

// atomEntry はAtomフィードの求人1件分。
type atomEntry struct {
	Title   string   `xml:"title"`
	Link    atomLink `xml:"link"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Summary string   `xml:"summary"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

// Feed はアフィリエイト向けの求人フィードを返す。
// GET /api/feed/:token?format=json|atom（デフォルトはjson）
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	feed, err := h.service.ProjectFeed(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, feed)
	case "atom":
		h.writeAtom(w, feed)
	default:
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_FORMAT",
			Message:  "サポートされていないフィード形式です。",
			Category: "validation",
			Action:   "formatにはjsonまたはatomを指定してください。",
		})
	}
}

// writeAtom はフィードをAtom 1.0形式で書き込む。
// エントリは正規URL順に並べて出力を安定させる。
func (h *FeedHandler) writeAtom(w http.ResponseWriter, feed map[string]affiliate.JobSummary) {
	urls := make([]string, 0, len(feed))
	for u := range feed {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	entries := make([]atomEntry, len(urls))
	for i, u := range urls {
		summary := feed[u]
		entries[i] = atomEntry{
			Title:   summary.Position + " - " + summary.Company,
			Link:    atomLink{Href: u},
			ID:      u,
			Updated: summary.ExpiresAt.UTC().Format(time.RFC3339),
			Summary: summary.Description,
		}
	}

	doc := atomFeed{
		Xmlns:   "http://www.w3.org/2005/Atom",
		Title:   "Latest Jobs",
		ID:      "urn:jobboard:feed",
		Updated: time.Now().UTC().Format(time.RFC3339),
		Entries: entries,
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(doc)
}
