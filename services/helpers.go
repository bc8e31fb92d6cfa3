package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"regexp"
	"strings"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// randomDigits returns n decimal digits from crypto/rand.
func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteString(d.String())
	}
	return b.String()
}

// randomToken returns a hex string of n random bytes.
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
)

// productSlug derives a URL slug from a title.
func productSlug(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "")
	return slugSpaces.ReplaceAllString(s, "-")
}

// ParseID turns a hex id path parameter into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest("Invalid id")
	}
	return oid, nil
}

// mergeJSON overlays the fields present in raw onto dst, which gives PATCH semantics.
func mergeJSON[T any](dst *T, raw []byte) error {
	if len(raw) == 0 {
		return apperrors.BadRequest("Request body is empty")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	return nil
}

// notFoundOr maps repository.ErrNotFound to a 404 with msg and wraps anything else as a 500.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Internal("Internal server error", err)
}
