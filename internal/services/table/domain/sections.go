package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

// Section selects part of a session for export and import.
type Section string

const (
	SectionPlayers  Section = "players"
	SectionNPCs     Section = "npcs"
	SectionMonsters Section = "monsters"
	SectionScenes   Section = "scenes"
	SectionClocks   Section = "clocks"
	SectionAll      Section = "all"
)

// Sections lists every exportable section.
var Sections = []Section{SectionPlayers, SectionNPCs, SectionMonsters, SectionScenes, SectionClocks, SectionAll}

const sectionTypePrefix = "voidlight_"

// ParseSection validates a section selector.
func ParseSection(text string) (Section, error) {
	section := Section(strings.ToLower(strings.TrimSpace(text)))
	for _, known := range Sections {
		if section == known {
			return section, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeUnknownSection, "unknown section", map[string]string{"Section": text})
}

// kind maps roster sections to their roster.
func (s Section) kind() (Kind, bool) {
	switch s {
	case SectionPlayers:
		return KindPlayer, true
	case SectionNPCs:
		return KindNPC, true
	case SectionMonsters:
		return KindMonster, true
	default:
		return "", false
	}
}

// label is the plural used in import prompts.
func (s Section) label() string {
	if s == SectionNPCs {
		return "NPCs"
	}
	return string(s)
}

// Export is the serialized form of one section.
type Export struct {
	FileName string
	Data     []byte
}

// ExportSection serializes section. The all section is a quick save.
func (s *Session) ExportSection(section Section) (Export, error) {
	if section == SectionAll {
		data, err := json.MarshalIndent(s.Snapshot(QuickSave), "", "  ")
		if err != nil {
			return Export{}, fmt.Errorf("encode session: %w", err)
		}
		return Export{FileName: s.FileName(), Data: data}, nil
	}

	var records any
	if k, ok := section.kind(); ok {
		records = s.Roster(k)
	} else {
		switch section {
		case SectionScenes:
			records = s.Scenes()
		case SectionClocks:
			records = s.Clocks()
		default:
			return Export{}, apperrors.WithMetadata(apperrors.CodeUnknownSection, "unknown section", map[string]string{"Section": string(section)})
		}
	}
	data, err := json.MarshalIndent(map[string]any{
		"type":          sectionTypePrefix + string(section),
		"version":       DocumentVersion,
		string(section): records,
	}, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("encode %s: %w", section, err)
	}
	return Export{FileName: sectionTypePrefix + string(section) + ".json", Data: data}, nil
}

// ImportResult describes an applied import.
type ImportResult struct {
	Section  Section
	Count    int
	Campaign bool
}

// Confirm asks the keeper to approve an import. Returning false cancels it.
type Confirm func(message string) bool

// Import reads a section export or a full campaign. Section records are
// appended with fresh ids; a campaign replaces the session and becomes the
// reset baseline. Nothing changes unless confirm approves.
func (s *Session) Import(data []byte, confirm Confirm) (ImportResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ImportResult{}, apperrors.WrapWithMetadata(apperrors.CodeInvalidDocument, "decode import", map[string]string{
			"Reason": err.Error(),
		}, err)
	}
	var docType string
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &docType); err != nil {
			return ImportResult{}, apperrors.WrapWithMetadata(apperrors.CodeUnknownFormat, "decode import type", map[string]string{
				"Reason": err.Error(),
			}, err)
		}
	}

	if section, ok := strings.CutPrefix(docType, sectionTypePrefix); ok {
		if raw, ok := fields[section]; ok && isJSONArray(raw) {
			return s.importSection(Section(section), raw, confirm)
		}
	}
	_, hasName := fields["sessionName"]
	_, hasPlayers := fields["players"]
	if docType == "" && (hasName || hasPlayers) {
		doc, err := ParseDocument(data)
		if err != nil {
			return ImportResult{}, err
		}
		if !ask(confirm, "This looks like a full campaign file. Load it as a new campaign?") {
			return ImportResult{}, declined()
		}
		s.ResetTo(doc)
		return ImportResult{Section: SectionAll, Campaign: true}, nil
	}
	return ImportResult{}, apperrors.New(apperrors.CodeUnknownFormat, "unknown file format")
}

func (s *Session) importSection(section Section, raw json.RawMessage, confirm Confirm) (ImportResult, error) {
	decode := func(v any) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return apperrors.WrapWithMetadata(apperrors.CodeInvalidDocument, "decode "+string(section), map[string]string{
				"Reason": err.Error(),
			}, err)
		}
		return nil
	}
	prompt := func(n int) bool {
		return ask(confirm, fmt.Sprintf("Import %d %s? This will add to existing %s.", n, section.label(), section.label()))
	}

	if k, ok := section.kind(); ok {
		var incoming []Character
		if err := decode(&incoming); err != nil {
			return ImportResult{}, err
		}
		if !prompt(len(incoming)) {
			return ImportResult{}, declined()
		}
		list := s.doc.roster(k)
		next := s.nextCharacterID(k)
		for _, c := range incoming {
			c = c.normalized(k)
			c.ID = next
			next++
			*list = append(*list, c)
		}
		return ImportResult{Section: section, Count: len(incoming)}, nil
	}

	switch section {
	case SectionScenes:
		var incoming []Scene
		if err := decode(&incoming); err != nil {
			return ImportResult{}, err
		}
		if !prompt(len(incoming)) {
			return ImportResult{}, declined()
		}
		ids := make([]ID, len(s.doc.Scenes))
		for i, sc := range s.doc.Scenes {
			ids[i] = sc.ID
		}
		next := nextID(ids)
		for _, sc := range incoming {
			sc = sc.normalized()
			sc.ID = next
			next++
			sc.Details.NPCsPresent = s.doc.migratePresence(sc.Details.NPCsPresent)
			s.doc.Scenes = append(s.doc.Scenes, sc)
		}
		if _, ok := s.CurrentScene(); !ok && len(s.doc.Scenes) > 0 {
			s.doc.CurrentScene = s.doc.Scenes[0].ID
		}
		return ImportResult{Section: section, Count: len(incoming)}, nil
	case SectionClocks:
		var incoming []Clock
		if err := decode(&incoming); err != nil {
			return ImportResult{}, err
		}
		if !prompt(len(incoming)) {
			return ImportResult{}, declined()
		}
		ids := make([]ID, len(s.doc.Clocks))
		for i, c := range s.doc.Clocks {
			ids[i] = c.ID
		}
		next := nextID(ids)
		for _, c := range incoming {
			c = c.normalized()
			c.ID = next
			next++
			s.doc.Clocks = append(s.doc.Clocks, c)
		}
		return ImportResult{Section: section, Count: len(incoming)}, nil
	default:
		return ImportResult{}, apperrors.New(apperrors.CodeUnknownFormat, "unknown file format")
	}
}

func ask(confirm Confirm, message string) bool {
	return confirm != nil && confirm(message)
}

func declined() error {
	return apperrors.New(apperrors.CodeImportDeclined, "import declined")
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
