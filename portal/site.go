package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/viola-academy/portal-client/keycase"
)

// SiteContent is the public landing-page content document. Its shape evolves
// independently of this client, so it is kept as raw JSON with typed
// accessors over the paths the UI actually renders.
type SiteContent struct {
	raw []byte
}

// FeatureCard is one landing-page feature tile.
type FeatureCard struct {
	Icon  string
	Title string
	Desc  string
}

// Testimonial is one landing-page quote.
type Testimonial struct {
	Quote  string
	Name   string
	Role   string
	Avatar string
}

// NewSiteContent wraps a raw content document.
func NewSiteContent(raw []byte) (*SiteContent, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid site content document")
	}
	return &SiteContent{raw: raw}, nil
}

// Raw returns the underlying document.
func (s *SiteContent) Raw() []byte { return s.raw }

func (s *SiteContent) get(path string) string {
	return gjson.GetBytes(s.raw, path).String()
}

func (s *SiteContent) AboutTitle() string  { return s.get("about.title") }
func (s *SiteContent) AboutDesc() string   { return s.get("about.desc") }
func (s *SiteContent) AboutQuote() string  { return s.get("about.quote") }
func (s *SiteContent) AboutAuthor() string { return s.get("about.author") }
func (s *SiteContent) AboutImage() string  { return s.get("about.image") }

func (s *SiteContent) FooterPhone() string   { return s.get("footer.phone") }
func (s *SiteContent) FooterEmail() string   { return s.get("footer.email") }
func (s *SiteContent) FooterAddress() string { return s.get("footer.address") }

// Features returns the feature tiles in document order.
func (s *SiteContent) Features() []FeatureCard {
	var out []FeatureCard
	gjson.GetBytes(s.raw, "features").ForEach(func(_, v gjson.Result) bool {
		out = append(out, FeatureCard{
			Icon:  v.Get("icon").String(),
			Title: v.Get("title").String(),
			Desc:  v.Get("desc").String(),
		})
		return true
	})
	return out
}

// Testimonials returns the quotes in document order.
func (s *SiteContent) Testimonials() []Testimonial {
	var out []Testimonial
	gjson.GetBytes(s.raw, "testimonials").ForEach(func(_, v gjson.Result) bool {
		out = append(out, Testimonial{
			Quote:  v.Get("quote").String(),
			Name:   v.Get("name").String(),
			Role:   v.Get("role").String(),
			Avatar: v.Get("avatar").String(),
		})
		return true
	})
	return out
}

// SiteRepo accesses the landing-page content document.
type SiteRepo struct {
	client *Client
}

// Fetch returns the content document, surfacing classified errors. Like
// every other entity, the document's keys are translated from the wire's
// snake_case on the way in.
func (r *SiteRepo) Fetch(ctx context.Context) (*SiteContent, error) {
	data, err := r.client.request(ctx, http.MethodGet, "/home_data", nil, "")
	if err != nil {
		return nil, err
	}
	translated, err := translateRaw(data, keycase.FromWire)
	if err != nil {
		return nil, err
	}
	return NewSiteContent(translated)
}

// Get returns the content document, degrading to an empty document on
// failure.
func (r *SiteRepo) Get(ctx context.Context) *SiteContent {
	content, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("site content read degraded: %v", err)
		return &SiteContent{raw: []byte("{}")}
	}
	return content
}

// Save replaces the content document, translating keys back to snake_case.
func (r *SiteRepo) Save(ctx context.Context, content *SiteContent) error {
	if content == nil || !gjson.ValidBytes(content.raw) {
		return fmt.Errorf("invalid site content document")
	}
	body, err := translateRaw(content.raw, keycase.ToWire)
	if err != nil {
		return err
	}
	_, err = r.client.request(ctx, http.MethodPost, "/home_data", body, contentTypeJSON)
	return err
}
