package authz

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Actor roles carried in the JWT `role` claim.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleClient   = "client"
	RoleEmployee = "employee"
)

// Gate is the authorization decision point consumed by every mutating route.
//
//go:generate mockgen -source=gate.go -destination=mock/gate_mock.go -package=mock
type Gate interface {
	Authorize(role, resource, action string) (bool, error)
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// policy is role -> resource -> actions. Admin gets everything below plus
// assignment delete and the audit ledger; clients may open schedules (the
// service forces those into planned) and read.
var policy = [][3]string{
	{RoleAdmin, "schedule", "create"},
	{RoleAdmin, "schedule", "read"},
	{RoleAdmin, "schedule", "update"},
	{RoleAdmin, "schedule", "transition"},
	{RoleAdmin, "assignment", "create"},
	{RoleAdmin, "assignment", "read"},
	{RoleAdmin, "assignment", "update"},
	{RoleAdmin, "assignment", "transition"},
	{RoleAdmin, "assignment", "delete"},
	{RoleAdmin, "audit", "read"},

	{RoleHR, "schedule", "create"},
	{RoleHR, "schedule", "read"},
	{RoleHR, "schedule", "update"},
	{RoleHR, "schedule", "transition"},
	{RoleHR, "assignment", "create"},
	{RoleHR, "assignment", "read"},
	{RoleHR, "assignment", "update"},
	{RoleHR, "assignment", "transition"},

	{RoleClient, "schedule", "create"},
	{RoleClient, "schedule", "read"},
	{RoleClient, "assignment", "read"},

	{RoleEmployee, "schedule", "read"},
	{RoleEmployee, "assignment", "read"},
}

type casbinGate struct {
	enforcer *casbin.Enforcer
}

// NewGate builds the casbin enforcer from the embedded model and the static
// role policy.
func NewGate() (Gate, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, rule := range policy {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, err
		}
	}

	return &casbinGate{enforcer: enforcer}, nil
}

func (g *casbinGate) Authorize(role, resource, action string) (bool, error) {
	return g.enforcer.Enforce(role, resource, action)
}
