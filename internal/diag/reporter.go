package diag

import "typedid/internal/source"

// Reporter: минимальный контракт получения диагностик от стадий.
// Реализации: BagReporter (кладёт в Bag), DedupReporter.
type Reporter interface {
	Report(code Code, sev Severity, loc source.Location, msg string, args []string, props []Property)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter from the descriptor of code.
func NewReportBuilder(r Reporter, code Code, loc source.Location, args ...string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(code, loc, args...),
	}
}

// WithSeverity overrides the descriptor severity.
func (b *ReportBuilder) WithSeverity(sev Severity) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Severity = sev
	return b
}

// WithProperty appends a key/value property.
func (b *ReportBuilder) WithProperty(key, value string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithProperty(key, value)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		d := b.diag
		b.reporter.Report(d.Code, d.Severity, d.Location, d.Message, d.Args, d.Properties)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, loc source.Location, msg string, args []string, props []Property) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Location: loc, Args: args, Properties: props,
	})
}

// ReportAll forwards already built diagnostics to r in order.
func ReportAll(r Reporter, ds []Diagnostic) {
	if r == nil {
		return
	}
	for _, d := range ds {
		r.Report(d.Code, d.Severity, d.Location, d.Message, d.Args, d.Properties)
	}
}
