package mockstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const shareIssuer = "spotr-mock"

// ShareClaims is the payload of a share token.
type ShareClaims struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	AccessCode string `json:"access_code"`
	jwt.RegisteredClaims
}

// CreateShareLink signs a token naming the shared entity. The entity must
// exist in the store.
func (s *Store) CreateShareLink(ctx context.Context, in *spotr.ShareLinkInput) (*spotr.ShareLink, error) {
	if in == nil {
		return nil, fmt.Errorf("share request is required")
	}
	if err := schema.Validate(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkShareable(in.EntityType, in.EntityID); err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.AddDate(0, 0, in.Days())
	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	claims := &ShareClaims{
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		AccessCode: code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.EntityID,
			Issuer:    shareIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign share token: %w", err)
	}

	shareURL := fmt.Sprintf("%s/share/%s/%s?token=%s",
		strings.TrimRight(s.webAppURL, "/"),
		url.PathEscape(in.EntityType),
		url.PathEscape(in.EntityID),
		url.QueryEscape(token))
	return &spotr.ShareLink{
		ShareURL:   shareURL,
		AccessCode: code,
		ExpiresAt:  expires.Format(time.RFC3339),
	}, nil
}

// ResolveShare verifies a share token and returns its claims.
func (s *Store) ResolveShare(token string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("share link expired")
		}
		return nil, fmt.Errorf("invalid share token: %w", err)
	}
	if !parsed.Valid || claims.Issuer != shareIssuer {
		return nil, fmt.Errorf("invalid share token")
	}
	return claims, nil
}

func (s *Store) checkShareable(entityType, id string) error {
	var found bool
	switch entityType {
	case "program":
		items, err := readList[spotr.Program](s, programsFile)
		if err != nil {
			return err
		}
		found = slices.ContainsFunc(items, func(p spotr.Program) bool { return p.ID == id })
	case "blueprint":
		items, err := readList[spotr.Blueprint](s, blueprintsFile)
		if err != nil {
			return err
		}
		found = slices.ContainsFunc(items, func(b spotr.Blueprint) bool { return b.ID == id })
	case "analysis":
		items, err := readList[spotr.ProgressAnalysis](s, analysesFile)
		if err != nil {
			return err
		}
		found = slices.ContainsFunc(items, func(a spotr.ProgressAnalysis) bool { return a.ID == id })
	case "evaluation":
		items, err := readList[spotr.Evaluation](s, evaluationsFile)
		if err != nil {
			return err
		}
		found = slices.ContainsFunc(items, func(e spotr.Evaluation) bool { return e.ID == id })
	default:
		return &schema.ValidationError{Fields: []schema.FieldError{{Field: "entity_type", Message: "must be one of: program, blueprint, analysis, evaluation"}}}
	}
	if !found {
		return &spotr.NotFoundError{Kind: entityType, ID: id}
	}
	return nil
}
