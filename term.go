package spf

import "net"

// Version wraps the literal version token of a record. The only value the
// resolver ever accepts is "v=spf1"; anything else fails validation
// (see checkVersion) rather than being rejected at parse time, so that the
// validator can report the exact reason.
type Version struct {
	Raw string
}

// Qualifier is the prefix attached to a mechanism, deciding what a match
// means. An absent qualifier in the record text means Pass.
type Qualifier byte

const (
	Pass     Qualifier = '+'
	Fail     Qualifier = '-'
	SoftFail Qualifier = '~'
	Neutral  Qualifier = '?'
)

func (q Qualifier) String() string {
	if q == 0 {
		return string(Pass)
	}
	return string(q)
}

// MechanismKind identifies which of the eight RFC 7208 mechanisms a
// Mechanism value carries.
type MechanismKind int

const (
	MechanismAll MechanismKind = iota
	MechanismA
	MechanismMx
	MechanismPtr
	MechanismIp4
	MechanismIp6
	MechanismInclude
	MechanismExists
)

// Mechanism is a tagged variant over the eight directive-producing
// mechanisms. Kind recovers the concrete variant; RawValue is always the
// exact substring of the parent RDATA that produced it.
type Mechanism interface {
	Kind() MechanismKind
	RawValue() string
}

// AllMechanism is the "all" mechanism. It carries no further data.
type AllMechanism struct {
	Raw string
}

func (m *AllMechanism) Kind() MechanismKind { return MechanismAll }
func (m *AllMechanism) RawValue() string    { return m.Raw }

// AMechanism is the "a"/"a:domain-spec" mechanism, resolved against DNS.
type AMechanism struct {
	Raw       string
	Domain    string // the target domain-spec actually queried
	Addresses []net.IP
	Prefix    *int // CIDR prefix length (0-32 or 0-128), nil when absent
}

func (m *AMechanism) Kind() MechanismKind { return MechanismA }
func (m *AMechanism) RawValue() string    { return m.Raw }

// MxMechanism is the "mx"/"mx:domain-spec" mechanism, resolved against DNS.
type MxMechanism struct {
	Raw       string
	Domain    string
	Exchanges []string
	Prefix    *int
}

func (m *MxMechanism) Kind() MechanismKind { return MechanismMx }
func (m *MxMechanism) RawValue() string    { return m.Raw }

// PtrMechanism is the "ptr"/"ptr:domain-spec" mechanism. The resolver
// attaches only the queried domain; matching a client IP against the PTR
// chain is SMTP-time evaluation, out of scope here.
type PtrMechanism struct {
	Raw    string
	Domain string
}

func (m *PtrMechanism) Kind() MechanismKind { return MechanismPtr }
func (m *PtrMechanism) RawValue() string    { return m.Raw }

// Ip4Mechanism is a literal "ip4:" mechanism.
type Ip4Mechanism struct {
	Raw    string
	IP     net.IP
	Prefix *int
}

func (m *Ip4Mechanism) Kind() MechanismKind { return MechanismIp4 }
func (m *Ip4Mechanism) RawValue() string    { return m.Raw }

// Ip6Mechanism is a literal "ip6:" mechanism.
type Ip6Mechanism struct {
	Raw    string
	IP     net.IP
	Prefix *int
}

func (m *Ip6Mechanism) Kind() MechanismKind { return MechanismIp6 }
func (m *Ip6Mechanism) RawValue() string    { return m.Raw }

// IncludeMechanism embeds the fully resolved sub-tree of an "include:"
// target. Terms is produced by the same resolve entry point recursively,
// so it has exactly the same shape as a top-level SpfAnswer's Terms.
type IncludeMechanism struct {
	Raw        string
	DomainSpec string
	Version    Version
	Terms      []Term
	RawRDATA   string
}

func (m *IncludeMechanism) Kind() MechanismKind { return MechanismInclude }
func (m *IncludeMechanism) RawValue() string    { return m.Raw }

// ExistsMechanism is the "exists:domain-spec" mechanism.
type ExistsMechanism struct {
	Raw        string
	DomainSpec string
}

func (m *ExistsMechanism) Kind() MechanismKind { return MechanismExists }
func (m *ExistsMechanism) RawValue() string    { return m.Raw }

// ModifierKind identifies which modifier a Modifier value carries.
type ModifierKind int

const (
	ModifierExp ModifierKind = iota
	ModifierRedirect
)

// Modifier is a tagged variant over "exp=" and "redirect=".
type Modifier interface {
	Kind() ModifierKind
	RawValue() string
}

// ExpModifier is the "exp=domain-spec" modifier. Its target is not
// resolved recursively (it names a TXT explanation record, not an SPF
// policy), so it carries only the raw domain-spec.
type ExpModifier struct {
	Raw        string
	DomainSpec string
}

func (m *ExpModifier) Kind() ModifierKind { return ModifierExp }
func (m *ExpModifier) RawValue() string   { return m.Raw }

// RedirectModifier embeds the fully resolved sub-tree of a "redirect="
// target, exactly like IncludeMechanism.
type RedirectModifier struct {
	Raw        string
	DomainSpec string
	Version    Version
	Terms      []Term
	RawRDATA   string
}

func (m *RedirectModifier) Kind() ModifierKind { return ModifierRedirect }
func (m *RedirectModifier) RawValue() string   { return m.Raw }

// TermKind identifies which of the three term shapes a Term carries.
type TermKind int

const (
	TermDirective TermKind = iota
	TermModifier
	TermUnknown
)

// Term is a tagged variant over Directive, ModifierTerm, and Unknown.
type Term interface {
	Kind() TermKind
	RawValue() string
}

// DirectiveTerm pairs a qualifier with a mechanism.
type DirectiveTerm struct {
	Qualifier Qualifier
	Mechanism Mechanism
	Raw       string
}

func (t *DirectiveTerm) Kind() TermKind   { return TermDirective }
func (t *DirectiveTerm) RawValue() string { return t.Raw }

// ModifierTerm wraps a Modifier as a top-level term.
type ModifierTerm struct {
	Modifier Modifier
	Raw      string
}

func (t *ModifierTerm) Kind() TermKind   { return TermModifier }
func (t *ModifierTerm) RawValue() string { return t.Raw }

// UnknownTerm is produced only when the classifier in classifyToken could
// not match any recognized prefix, or when a recursive include/redirect
// degraded to NoSpfRecordFound. Note carries the latter's message, if any.
type UnknownTerm struct {
	Raw  string
	Note string
}

func (t *UnknownTerm) Kind() TermKind   { return TermUnknown }
func (t *UnknownTerm) RawValue() string { return t.Raw }

// SpfAnswer is the result of a successful resolve: the version token, the
// flat (non-nested at this level) list of top-level terms, and the exact
// RDATA string that was tokenized to produce them.
type SpfAnswer struct {
	Version  Version
	Terms    []Term
	RawRDATA string
}
