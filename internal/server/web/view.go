package web

import (
	"strconv"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// view is the data every page template receives.
type view struct {
	printer *message.Printer

	Lang     string
	UserName string
	Flash    *flash
	Error    string

	Fields  []field
	Values  map[string]string
	Result  *result
	Records []record
}

// T translates a message key for the request language.
func (v *view) T(key string, args ...any) string {
	return v.printer.Sprintf(key, args...)
}

type field struct {
	Name   string
	Legend []classifier.Category
}

type result struct {
	LocalID  int64
	Severity int
	Referral bool
}

type record struct {
	LocalID   int64
	Features  []string
	Severity  int
	Referral  bool
	CreatedAt string
}

func (s *Server) newView(c *gin.Context) *view {
	p, tag := printerFor(c.GetHeader("Accept-Language"))
	v := &view{
		printer: p,
		Lang:    tag.String(),
		Flash:   s.popFlash(c),
		Fields:  s.fields,
	}
	if claims, ok := claimsFrom(c); ok {
		v.UserName = claims.UserName
	}
	return v
}

func (v *view) setError(err error) {
	key, args := messageFor(err)
	v.Error = v.T(key, args...)
}

func newResult(p *models.Prediction) *result {
	return &result{LocalID: p.LocalID, Severity: p.Result, Referral: p.NeedsReferral()}
}

func newRecords(ps []*models.Prediction) []record {
	out := make([]record, 0, len(ps))
	for _, p := range ps {
		r := record{
			LocalID:   p.LocalID,
			Features:  make([]string, len(p.Features)),
			Severity:  p.Result,
			Referral:  p.NeedsReferral(),
			CreatedAt: p.CreatedAt.Format(timeLayout),
		}
		for i, f := range p.Features {
			r.Features[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		out = append(out, r)
	}
	return out
}

// formFields builds the A1..A10 inputs; categorical features carry their
// legend so the form can offer the category names.
func formFields(encodings []classifier.FeatureEncoding) []field {
	byName := make(map[string]classifier.FeatureEncoding, len(encodings))
	for _, e := range encodings {
		byName[e.Name] = e
	}
	names := classifier.FeatureNames()
	out := make([]field, len(names))
	for i, n := range names {
		out[i] = field{Name: n, Legend: byName[n].Legend()}
	}
	return out
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
