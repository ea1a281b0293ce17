package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"fmdgen/internal/spec"
)

// Intent classifies what the utterance asks for.
type Intent int

const (
	// IntentDescribe adds or refines specification content.
	IntentDescribe Intent = iota
	// IntentGenerate explicitly requests artifact generation.
	IntentGenerate
)

// Kind tags what entity a proposal introduces or updates.
type Kind int

const (
	KindSystemName Kind = iota
	KindComponent
	KindState
	KindFault
	KindFlow
	KindConnection
)

// String returns the kind name used in acknowledgments.
func (k Kind) String() string {
	switch k {
	case KindSystemName:
		return "system"
	case KindComponent:
		return "component"
	case KindState:
		return "state"
	case KindFault:
		return "fault"
	case KindFlow:
		return "flow"
	case KindConnection:
		return "connection"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Proposal is one candidate entity addition or update. Names are already
// sanitized: components and flows carry class-style names, states and
// faults carry identifier-style names.
type Proposal struct {
	Kind       Kind
	Component  string // owning component for states/faults; "" = unresolved
	Name       string
	Value      *spec.Value          // state default, when one was given
	Rate       *float64             // fault occurrence rate, when given
	Connection *spec.ConnectionSpec // set for KindConnection
	Confidence float64
}

// NoteCode categorizes ambiguity notes.
type NoteCode string

const (
	// NoteSplit reports that one clause was split into multiple proposals.
	NoteSplit NoteCode = "SPLIT"
	// NoteDuplicate reports a likely duplicate of an existing entity.
	NoteDuplicate NoteCode = "DUPLICATE"
	// NoteSanitizeRejected reports a name that sanitized to empty and was
	// dropped rather than silently renamed.
	NoteSanitizeRejected NoteCode = "SANITIZE_REJECTED"
	// NoteUnrecognized reports input discarded without being understood.
	NoteUnrecognized NoteCode = "UNRECOGNIZED"
)

// Note is a non-fatal ambiguity signal for the dialog controller.
type Note struct {
	Code    NoteCode
	Message string
}

// Result is the outcome of extracting one utterance.
type Result struct {
	Intent    Intent
	Proposals []Proposal
	Notes     []Note
}

var (
	generateRE = regexp.MustCompile(`(?i)\bgenerate\b|\b(?:build|make|write|create)\s+(?:the\s+)?files\b`)

	componentsCueRE = regexp.MustCompile(`(?i)\bcomponents?\s*(?::|\bare\b|\binclude\b)\s*(.+)`)
	faultsCueRE     = regexp.MustCompile(`(?i)\b(?:faults?|failure\s+modes?)\s*(?::|\bare\b|\binclude\b)\s*(.+)`)
	statesCueRE     = regexp.MustCompile(`(?i)\b(?:states?\s*(?::|\bare\b|\binclude\b)|(?:has|with)\s+states?\b)\s*(.+)`)
	flowsCueRE      = regexp.MustCompile(`(?i)\bflows?\s*(?::|\bare\b|\binclude\b)\s*(.+)`)

	canFailRE = regexp.MustCompile(`(?i)\bcan\s+fail\s+due\s+to\s+(.+)`)
	canVerbRE = regexp.MustCompile(`(?i)\bcan\s+([a-z]+(?:\s*(?:,|\bor\b|\band\b)\s*[a-z]+)*)`)

	statePairRE = regexp.MustCompile(`(?i)\b([a-z][a-z0-9_]*)\s*:\s*(-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?|"[^"]*"|'[^']*'|true|false)`)

	connectionRE = regexp.MustCompile(`(?i)\bconnect\s+(\w+)\s+(?:to|and|with)\s+(\w+)\s+(?:via|through|using|over)\s+(\w+)`)

	systemNameREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:model|build|make|create)\s+(?:a|an|the)?\s*([a-zA-Z0-9][a-zA-Z0-9 ]*?)\s+(?:system|model)\b`),
		regexp.MustCompile(`(?i)\bfor\s+(?:a|an|the)?\s*([a-zA-Z0-9][a-zA-Z0-9 ]*?)\s+(?:system|model)\b`),
	}

	// reserved words that must never become state names via pair syntax.
	reservedPairNames = map[string]bool{
		"component": true, "components": true,
		"fault": true, "faults": true,
		"state": true, "states": true,
		"flow": true, "flows": true,
	}

	nameStopWords = []string{"want", "need", "can", "will", "have", "should"}
)

var componentNounRE = regexp.MustCompile(`(?i)\b(` + strings.Join(componentNouns, "|") + `)s?\b`)

var faultNounRE = regexp.MustCompile(`(?i)\b(` + strings.Join(faultNouns, "|") + `)\b`)

// Extract scans one utterance against the current specification and
// returns entity proposals plus ambiguity notes. cur is read-only.
func Extract(utterance string, cur *spec.LevelSpec) Result {
	var res Result
	text := strings.TrimSpace(utterance)
	if text == "" {
		return res
	}

	if generateRE.MatchString(text) {
		res.Intent = IntentGenerate
		return res
	}

	e := &extractor{
		cur:   cur,
		text:  text,
		lower: strings.ToLower(text),
		seen:  make(map[string]bool),
	}

	e.systemName()
	e.cueLists()
	e.statePairs()
	e.componentMentions()
	e.faultPhrases()
	e.stateMentions()
	e.connections()
	e.resolveOwners()

	res.Proposals = e.proposals
	res.Notes = e.notes

	if len(res.Proposals) == 0 {
		res.Notes = append(res.Notes, Note{
			Code:    NoteUnrecognized,
			Message: fmt.Sprintf("no entities recognized in %q; it was not applied", clip(text, 60)),
		})
	}
	return res
}

// extractor accumulates proposals for a single Extract call.
type extractor struct {
	cur       *spec.LevelSpec
	text      string
	lower     string
	proposals []Proposal
	notes     []Note
	seen      map[string]bool // dedup key: kind|component|name
}

func (e *extractor) add(p Proposal) {
	key := fmt.Sprintf("%d|%s|%s", p.Kind, p.Component, p.Name)
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.proposals = append(e.proposals, p)
}

func (e *extractor) note(code NoteCode, format string, args ...interface{}) {
	e.notes = append(e.notes, Note{Code: code, Message: fmt.Sprintf(format, args...)})
}

// systemName proposes a level name when none is known yet.
func (e *extractor) systemName() {
	if e.cur != nil && e.cur.Name != "" {
		return
	}
	for _, re := range systemNameREs {
		m := re.FindStringSubmatch(e.text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if candidate == "" || len(strings.Fields(candidate)) > 5 {
			continue
		}
		if containsStopWord(candidate) {
			continue
		}
		e.add(Proposal{Kind: KindSystemName, Name: candidate, Confidence: 0.7})
		return
	}
}

// cueLists handles explicit enumerations after cue phrases.
func (e *extractor) cueLists() {
	if m := componentsCueRE.FindStringSubmatch(e.text); m != nil {
		e.addItems(KindComponent, SplitItems(trailingClause(m[1])), 0.9)
	}
	if m := flowsCueRE.FindStringSubmatch(e.text); m != nil {
		e.addItems(KindFlow, SplitItems(trailingClause(m[1])), 0.9)
	}
	if m := faultsCueRE.FindStringSubmatch(e.text); m != nil {
		e.addItems(KindFault, SplitItems(trailingClause(m[1])), 0.9)
	}
	if m := statesCueRE.FindStringSubmatch(e.text); m != nil {
		items := SplitItems(trailingClause(m[1]))
		if len(items) > 1 {
			e.note(NoteSplit, "detected %d state items and split them", len(items))
		}
		for _, item := range items {
			e.addStateItem(item, 0.9)
		}
	}
}

// addItems sanitizes and proposes each item of an enumeration.
func (e *extractor) addItems(kind Kind, items []string, conf float64) {
	if len(items) > 1 {
		e.note(NoteSplit, "detected %d %s items and split them", len(items), kind)
	}
	for _, item := range items {
		var name string
		switch kind {
		case KindComponent, KindFlow:
			name = cleanComponentName(item)
		default:
			name = spec.Identifier(item)
		}
		if name == "" {
			e.note(NoteSanitizeRejected, "dropped %q: no usable characters after sanitization", item)
			continue
		}
		if kind == KindComponent && e.cur != nil && e.cur.Component(name) != nil {
			e.note(NoteDuplicate, "component %q already exists", name)
			continue
		}
		if kind == KindFlow && e.cur != nil && e.cur.Flow(name) != nil {
			e.note(NoteDuplicate, "flow %q already exists", name)
			continue
		}
		e.add(Proposal{Kind: kind, Name: name, Confidence: conf})
	}
}

// addStateItem parses one state enumeration item: either "name: value"
// or a bare name looked up in the state lexicon.
func (e *extractor) addStateItem(item string, conf float64) {
	if m := statePairRE.FindStringSubmatch(item); m != nil {
		e.addStatePair(m[1], m[2], conf)
		return
	}
	name := spec.Identifier(item)
	if name == "" {
		e.note(NoteSanitizeRejected, "dropped %q: no usable characters after sanitization", item)
		return
	}
	if canonical, ok := stateNounAliases[name]; ok {
		name = canonical
	}
	val := spec.Float(0)
	if def, ok := stateNouns[name]; ok {
		val = spec.Float(def)
	}
	e.add(Proposal{Kind: KindState, Name: name, Value: &val, Confidence: conf})
}

// statePairs scans the whole utterance for "name: value" declarations.
func (e *extractor) statePairs() {
	for _, m := range statePairRE.FindAllStringSubmatch(e.text, -1) {
		if reservedPairNames[strings.ToLower(m[1])] {
			continue
		}
		e.addStatePair(m[1], m[2], 0.9)
	}
}

func (e *extractor) addStatePair(rawName, rawValue string, conf float64) {
	name := spec.Identifier(rawName)
	if name == "" {
		e.note(NoteSanitizeRejected, "dropped %q: no usable characters after sanitization", rawName)
		return
	}
	var val spec.Value
	if len(rawValue) > 0 && (rawValue[0] == '"' || rawValue[0] == '\'') {
		val = spec.StringValue(strings.Trim(rawValue, `"'`))
	} else {
		val = spec.ParseScalar(rawValue)
	}
	e.add(Proposal{Kind: KindState, Name: name, Value: &val, Confidence: conf})
}

// componentMentions proposes components named by bare domain nouns and
// normalized aliases ("AC" -> AcSystem, "V6" -> Engine).
func (e *extractor) componentMentions() {
	for _, alias := range sortedKeys(componentAliases) {
		if containsWord(e.lower, alias) {
			e.proposeComponent(componentAliases[alias], 0.7)
		}
	}
	for _, m := range componentNounRE.FindAllStringSubmatch(e.text, -1) {
		e.proposeComponent(cleanComponentName(m[1]), 0.7)
	}
}

func (e *extractor) proposeComponent(name string, conf float64) {
	if name == "" {
		return
	}
	// A mention of an already-known component is an attachment hint, not
	// a new entity.
	if e.cur != nil && e.cur.Component(name) != nil {
		return
	}
	e.add(Proposal{Kind: KindComponent, Name: name, Confidence: conf})
}

// faultPhrases extracts fault modes from capability verbs and bare nouns.
func (e *extractor) faultPhrases() {
	if m := canFailRE.FindStringSubmatch(e.text); m != nil {
		items := SplitItems(trailingClause(m[1]))
		if len(items) > 1 {
			e.note(NoteSplit, "detected %d fault items and split them", len(items))
		}
		for _, item := range items {
			name := spec.Identifier(item)
			if name == "" {
				e.note(NoteSanitizeRejected, "dropped %q: no usable characters after sanitization", item)
				continue
			}
			e.add(Proposal{Kind: KindFault, Name: name, Confidence: 0.8})
		}
	} else if m := canVerbRE.FindStringSubmatch(e.text); m != nil {
		for _, verb := range SplitItems(strings.ReplaceAll(strings.ToLower(m[1]), " or ", ",")) {
			if fault, ok := faultVerbs[verb]; ok {
				e.add(Proposal{Kind: KindFault, Name: fault, Confidence: 0.7})
			}
		}
	}

	for _, m := range faultNounRE.FindAllStringSubmatch(e.text, -1) {
		e.add(Proposal{Kind: KindFault, Name: strings.ToLower(m[1]), Confidence: 0.6})
	}
}

// stateMentions proposes lexicon states named without values, with
// plausible defaults.
func (e *extractor) stateMentions() {
	for _, noun := range sortedNumKeys(stateNouns) {
		if stateNounAliases[noun] != "" {
			continue // alias spellings resolve through their canonical noun
		}
		if !containsWord(e.lower, noun) && !containsWord(e.lower, strings.ReplaceAll(noun, "_", " ")) {
			continue
		}
		val := spec.Float(stateNouns[noun])
		e.add(Proposal{Kind: KindState, Name: noun, Value: &val, Confidence: 0.5})
	}
	for _, alias := range sortedKeys(stateNounAliases) {
		if containsWord(e.lower, alias) {
			canonical := stateNounAliases[alias]
			val := spec.Float(stateNouns[canonical])
			e.add(Proposal{Kind: KindState, Name: canonical, Value: &val, Confidence: 0.5})
		}
	}
}

// connections extracts "connect A to B via Flow" triples.
func (e *extractor) connections() {
	for _, m := range connectionRE.FindAllStringSubmatch(e.text, -1) {
		from := cleanComponentName(m[1])
		to := cleanComponentName(m[2])
		flow := cleanComponentName(m[3])
		if from == "" || to == "" || flow == "" {
			e.note(NoteSanitizeRejected, "dropped connection %q: unusable name", m[0])
			continue
		}
		e.add(Proposal{
			Kind:       KindConnection,
			Name:       flow,
			Connection: &spec.ConnectionSpec{From: from, To: to, Flow: flow},
			Confidence: 0.8,
		})
	}
}

// resolveOwners attaches owner-less state and fault proposals to the one
// component this utterance is about, when that is unambiguous: either a
// single known component mentioned by name, or a single new component
// proposed this turn. Otherwise ownership stays open for the controller
// to attach to the most recently added component.
func (e *extractor) resolveOwners() {
	var targets []string

	if e.cur != nil {
		for i := range e.cur.Components {
			if containsWord(e.lower, strings.ToLower(e.cur.Components[i].Name)) {
				targets = append(targets, e.cur.Components[i].Name)
			}
		}
	}
	for _, p := range e.proposals {
		if p.Kind == KindComponent {
			targets = append(targets, p.Name)
		}
	}

	if len(targets) != 1 {
		return
	}
	for i := range e.proposals {
		p := &e.proposals[i]
		if (p.Kind == KindState || p.Kind == KindFault) && p.Component == "" {
			p.Component = targets[0]
		}
	}
}

func containsStopWord(s string) bool {
	lower := strings.ToLower(s)
	for _, w := range nameStopWords {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether lower contains word on word boundaries.
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordChar(lower[i-1])
		after := i+len(word) == len(lower) || !isWordChar(lower[i+len(word)])
		if before && after {
			return true
		}
		idx = i + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// cleanComponentName normalizes a raw mention into a class-style name.
func cleanComponentName(raw string) string {
	if canonical, ok := componentAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return spec.ClassName(raw)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNumKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
