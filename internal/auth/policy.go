package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/domain"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

type requirementKind uint8

const (
	kindPublic requirementKind = iota
	kindAuthenticated
	kindRole
)

// Requirement is what an operation demands of the caller.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

// Public operations are open to anonymous callers.
func Public() Requirement { return Requirement{kind: kindPublic} }

// AuthenticatedAny operations need some identity, whatever its role.
func AuthenticatedAny() Requirement { return Requirement{kind: kindAuthenticated} }

// RequiresRole operations need an identity holding exactly role.
func RequiresRole(role domain.Role) Requirement { return Requirement{kind: kindRole, role: role} }

func (r Requirement) String() string {
	switch r.kind {
	case kindPublic:
		return "public"
	case kindAuthenticated:
		return "authenticated"
	default:
		return "role:" + string(r.role)
	}
}

// Decision is the outcome of evaluating a Requirement.
type Decision uint8

const (
	Allow Decision = iota
	// DenyUnauthenticated means no identity was present; the caller may log in and retry.
	DenyUnauthenticated
	// DenyForbidden means an identity was present but its role is insufficient.
	DenyForbidden
)

// Err maps a decision to the error surfaced at the HTTP boundary.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperrors.NewUnauthorized("authentication required")
	default:
		return apperrors.NewForbidden("insufficient role")
	}
}

// Decide evaluates req against the request identity. nil means anonymous.
func Decide(identity *domain.Identity, req Requirement) Decision {
	switch req.kind {
	case kindPublic:
		return Allow
	case kindAuthenticated:
		if identity == nil {
			return DenyUnauthenticated
		}
		return Allow
	case kindRole:
		if identity == nil {
			return DenyUnauthenticated
		}
		if identity.Role != req.role {
			return DenyForbidden
		}
		return Allow
	default:
		return DenyForbidden
	}
}

// Policy is the read-only table of operation requirements.
type Policy struct {
	table map[Operation]Requirement
}

// NewPolicy copies table into a Policy.
func NewPolicy(table map[Operation]Requirement) *Policy {
	cp := make(map[Operation]Requirement, len(table))
	for op, req := range table {
		cp[op] = req
	}
	return &Policy{table: cp}
}

// Requirement looks up the requirement declared for op.
func (p *Policy) Requirement(op Operation) (Requirement, bool) {
	req, ok := p.table[op]
	return req, ok
}

// Check decides op for identity. Undeclared operations are forbidden.
func (p *Policy) Check(identity *domain.Identity, op Operation) Decision {
	req, ok := p.table[op]
	if !ok {
		return DenyForbidden
	}
	return Decide(identity, req)
}

// Guard returns a fiber handler enforcing op. It panics when op is not
// declared so a missing entry fails at route registration.
func (p *Policy) Guard(op Operation) fiber.Handler {
	req, ok := p.table[op]
	if !ok {
		panic(fmt.Sprintf("auth: no access requirement declared for operation %q", op))
	}
	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromCtx(c)
		if err := Decide(identity, req).Err(); err != nil {
			return err
		}
		return c.Next()
	}
}
