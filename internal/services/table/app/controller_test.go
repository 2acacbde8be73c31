package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/voidlight/internal/core/dice"
	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage/sqlite"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newTestController(t *testing.T, faces []int, opts ...ControllerOption) *Controller {
	t.Helper()
	session, err := domain.NewSession(
		domain.WithSource(dice.NewScripted(faces...)),
		domain.WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	c, err := NewController(session, cat, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "table.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDispatch(t *testing.T, c *Controller, a Action) Result {
	t.Helper()
	res, err := c.Dispatch(context.Background(), a)
	if err != nil {
		t.Fatalf("dispatch %s: %v", a.Type, err)
	}
	return res
}

func TestNewControllerValidation(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if _, err := NewController(nil, cat); err == nil {
		t.Fatal("expected error for nil session")
	}
	session, _ := domain.NewSession()
	if _, err := NewController(session, nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	c := newTestController(t, nil)
	_, err := c.Dispatch(context.Background(), Action{Type: "fear.double"})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeInvalidAction)
	}
}

func TestDispatchPublishesChanges(t *testing.T) {
	c := newTestController(t, nil)
	var got []Change
	unsubscribe := c.Subscribe(func(ch Change) { got = append(got, ch) })

	res := mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 2})
	if res.Version != 1 || res.Value != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(got) != 1 || got[0].Keeper.Fear != 2 || got[0].Player.Fear != 2 || got[0].Action != "fear.adjust" {
		t.Fatalf("changes = %+v", got)
	}
	if got[0].Player.Mode != domain.PlayerView {
		t.Fatalf("player change mode = %v", got[0].Player.Mode)
	}

	unsubscribe()
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 1})
	if len(got) != 1 {
		t.Fatalf("changes after unsubscribe = %d", len(got))
	}
}

func TestFailedActionPublishesNothing(t *testing.T) {
	c := newTestController(t, nil)
	published := 0
	c.Subscribe(func(Change) { published++ })

	monster := mustDispatch(t, c, Action{Type: "character.add", Kind: "monster", Name: "Scrap-Rat"}).Value.(domain.Character)
	_, err := c.Dispatch(context.Background(), Action{Type: "spotlight.set", Kind: "monster", ID: monster.ID})
	if apperrors.CodeOf(err) != apperrors.CodeInsufficientFear {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeInsufficientFear)
	}
	if published != 1 || c.Version() != 1 {
		t.Fatalf("published = %d version = %d, want 1/1", published, c.Version())
	}

	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 1})
	mustDispatch(t, c, Action{Type: "spotlight.set", Kind: "monster", ID: monster.ID})
	view, _ := c.View(domain.KeeperView)
	if view.Fear != 0 || view.Spotlight == nil || view.Spotlight.ID != monster.ID {
		t.Fatalf("fear = %d spotlight = %+v", view.Fear, view.Spotlight)
	}
}

func TestDispatchValidatesKind(t *testing.T) {
	c := newTestController(t, nil)
	_, err := c.Dispatch(context.Background(), Action{Type: "character.hp", Kind: "dragons", ID: 1, Delta: -1})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestTemplateAndBestiaryActions(t *testing.T) {
	c := newTestController(t, nil)
	mustDispatch(t, c, Action{Type: "session.template", Template: "example_campaign"})
	view, _ := c.View(domain.KeeperView)
	if len(view.Players) != 2 || len(view.Monsters) != 1 {
		t.Fatalf("players = %d monsters = %d", len(view.Players), len(view.Monsters))
	}

	added := mustDispatch(t, c, Action{Type: "bestiary.add", Monster: "data-ghost"}).Value.(domain.Character)
	if added.Name != "Data-Ghost" {
		t.Fatalf("added = %q", added.Name)
	}
	view, _ = c.View(domain.KeeperView)
	var pinned bool
	for _, m := range view.Monsters {
		if m.ID == added.ID {
			pinned = m.Pinned
		}
	}
	if !pinned {
		t.Fatal("bestiary monster not pinned")
	}

	all := mustDispatch(t, c, Action{Type: "bestiary.addAll", Tier: 5}).Value.([]domain.Character)
	if len(all) != 2 {
		t.Fatalf("tier 5 added %d", len(all))
	}

	mustDispatch(t, c, Action{Type: "session.reset"})
	view, _ = c.View(domain.KeeperView)
	if len(view.Monsters) != 1 {
		t.Fatalf("monsters after reset = %d, want template's 1", len(view.Monsters))
	}

	if _, err := c.Dispatch(context.Background(), Action{Type: "session.template", Template: "nope"}); apperrors.CodeOf(err) != apperrors.CodeTemplateNotFound {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestBestiarySearchDoesNotMutate(t *testing.T) {
	c := newTestController(t, nil)
	res := mustDispatch(t, c, Action{Type: "bestiary.search", Text: "tier = 4"})
	if entries := res.Value.([]catalog.Entry); len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	if c.Version() != 0 {
		t.Fatalf("version = %d, want 0", c.Version())
	}
}

func TestDiceActions(t *testing.T) {
	c := newTestController(t, []int{7, 7, 3, 4})
	rec := mustDispatch(t, c, Action{Type: "dice.duality"}).Value.(domain.RollRecord)
	if rec.Outcome != domain.OutcomeCritical {
		t.Fatalf("outcome = %s, want critical", rec.Outcome)
	}
	dmg := mustDispatch(t, c, Action{Type: "dice.damage", Dice: "2d6+1"}).Value.(domain.RollRecord)
	if dmg.Total != 8 || dmg.Dice != "2d6" {
		t.Fatalf("damage = %+v", dmg)
	}
	if _, err := c.Dispatch(context.Background(), Action{Type: "dice.damage", Dice: "lots"}); apperrors.CodeOf(err) != apperrors.CodeInvalidDiceSpec {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if _, err := c.Dispatch(context.Background(), Action{Type: "dice.damage", Dice: "1099511627776d6"}); apperrors.CodeOf(err) != apperrors.CodeInvalidDiceSpec {
		t.Fatalf("oversized code = %s", apperrors.CodeOf(err))
	}
}

func TestPinAllActions(t *testing.T) {
	c := newTestController(t, nil)
	mustDispatch(t, c, Action{Type: "character.add", Kind: "npc", Name: "Milo"})
	mustDispatch(t, c, Action{Type: "character.add", Kind: "npc", Name: "Ria"})
	mustDispatch(t, c, Action{Type: "character.add", Kind: "player", Name: "Vex"})

	ids := mustDispatch(t, c, Action{Type: "character.pinAll", Kind: "npcs"}).Value.([]domain.ID)
	if len(ids) != 2 {
		t.Fatalf("pinned = %v", ids)
	}
	view, _ := c.View(domain.KeeperView)
	for _, npc := range view.NPCs {
		if !npc.Pinned {
			t.Fatalf("npc %s not pinned", npc.Name)
		}
	}
	if view.Players[0].Pinned {
		t.Fatal("player pinned by npc pinAll")
	}

	mustDispatch(t, c, Action{Type: "character.unpinAll", Kind: "npc"})
	view, _ = c.View(domain.KeeperView)
	for _, npc := range view.NPCs {
		if npc.Pinned {
			t.Fatalf("npc %s still pinned", npc.Name)
		}
	}

	if _, err := c.Dispatch(context.Background(), Action{Type: "character.pinAll", Kind: "crew"}); apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestSceneEnvironmentAction(t *testing.T) {
	c := newTestController(t, nil)
	scene := mustDispatch(t, c, Action{Type: "scene.add", Name: "Market Day"}).Value.(domain.Scene)
	view, _ := c.View(domain.KeeperView)
	if view.CurrentScene == nil || view.CurrentScene.ID != scene.ID {
		t.Fatalf("current scene = %+v, want the first added scene", view.CurrentScene)
	}
	id := scene.ID
	choice := mustDispatch(t, c, Action{Type: "scene.environment", ID: id, Layer: "micro", Environment: "bazaar", Tier: 3}).Value.(domain.EnvironmentChoice)
	if choice.DC != 15 {
		t.Fatalf("dc = %d, want 15", choice.DC)
	}
	view, _ = c.View(domain.KeeperView)
	if view.CurrentScene.Environment.Micro != "bazaar" || view.CurrentScene.Environment.MicroDC != 15 {
		t.Fatalf("environment = %+v", view.CurrentScene.Environment)
	}
	if _, err := c.Dispatch(context.Background(), Action{Type: "scene.environment", ID: id, Layer: "meso"}); apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestMoveAction(t *testing.T) {
	c := newTestController(t, nil)
	if _, err := c.Dispatch(context.Background(), Action{Type: "move.execute", Move: "Inflict Harm"}); apperrors.CodeOf(err) != apperrors.CodeInsufficientFear {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 3})
	mustDispatch(t, c, Action{Type: "move.execute", Move: "inflict harm"})
	view, _ := c.View(domain.KeeperView)
	if view.Fear != 2 {
		t.Fatalf("fear = %d, want 2", view.Fear)
	}
}

func TestAutosave(t *testing.T) {
	store := openStore(t)
	c := newTestController(t, nil, WithStore(store), WithAutosave("autosave"))
	mustDispatch(t, c, Action{Type: "session.rename", Name: "Night One"})
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 4})

	slot, err := store.GetSlot(context.Background(), "autosave")
	if err != nil {
		t.Fatalf("get autosave: %v", err)
	}
	var doc struct {
		SessionName string `json:"sessionName"`
		FearTokens  int    `json:"fearTokens"`
		Version     string `json:"version"`
	}
	if err := json.Unmarshal(slot.Document, &doc); err != nil {
		t.Fatalf("decode autosave: %v", err)
	}
	if doc.SessionName != "Night One" || doc.FearTokens != 4 || doc.Version != domain.DocumentVersion {
		t.Fatalf("autosave = %+v", doc)
	}
}

func TestSlotActions(t *testing.T) {
	store := openStore(t)
	c := newTestController(t, nil, WithStore(store))
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 5})
	mustDispatch(t, c, Action{Type: "slot.save", Slot: "before"})
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: -5})

	slots := mustDispatch(t, c, Action{Type: "slot.list"}).Value.([]SlotInfo)
	if len(slots) != 1 || slots[0].Name != "before" || slots[0].Active {
		t.Fatalf("slots = %+v", slots)
	}

	mustDispatch(t, c, Action{Type: "slot.load", Slot: "before"})
	view, _ := c.View(domain.KeeperView)
	if view.Fear != 5 {
		t.Fatalf("fear after load = %d, want 5", view.Fear)
	}

	mustDispatch(t, c, Action{Type: "slot.activate", Slot: "before"})
	slots, _ = c.ListSlots(context.Background())
	if !slots[0].Active {
		t.Fatal("activated slot not marked active")
	}

	mustDispatch(t, c, Action{Type: "slot.delete", Slot: "before"})
	if _, err := c.Dispatch(context.Background(), Action{Type: "slot.load", Slot: "before"}); apperrors.CodeOf(err) != apperrors.CodeSaveNotFound {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestSlotActionsWithoutStore(t *testing.T) {
	c := newTestController(t, nil)
	if _, err := c.Dispatch(context.Background(), Action{Type: "slot.list"}); apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestConcurrentDispatchIsSerialized(t *testing.T) {
	c := newTestController(t, nil)
	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Dispatch(context.Background(), Action{Type: "character.add", Kind: "npc", Name: "Extra"}); err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}()
	}
	wg.Wait()

	view, version := c.View(domain.KeeperView)
	if len(view.NPCs) != n || version != n {
		t.Fatalf("npcs = %d version = %d, want %d", len(view.NPCs), version, n)
	}
	seen := map[domain.ID]bool{}
	for _, npc := range view.NPCs {
		if seen[npc.ID] {
			t.Fatalf("duplicate id %d", npc.ID)
		}
		seen[npc.ID] = true
	}
}

func TestExportAndImport(t *testing.T) {
	c := newTestController(t, nil)
	mustDispatch(t, c, Action{Type: "character.add", Kind: "player", Name: "Vex"})
	export, err := c.Export("players")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.FileName != "voidlight_players.json" {
		t.Fatalf("file name = %s", export.FileName)
	}

	if _, err := c.Import(context.Background(), export.Data, nil); apperrors.CodeOf(err) != apperrors.CodeImportDeclined {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	res, err := c.Import(context.Background(), export.Data, func(string) bool { return true })
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("count = %d", res.Count)
	}
	view, _ := c.View(domain.KeeperView)
	if len(view.Players) != 2 {
		t.Fatalf("players = %d", len(view.Players))
	}

	mustDispatch(t, c, Action{Type: "session.rename", Name: "Night One"})
	full, err := c.Export("full")
	if err != nil {
		t.Fatalf("export full: %v", err)
	}
	if full.FileName != "Night_One_2026-03-14.json" {
		t.Fatalf("full file name = %s", full.FileName)
	}
	if _, err := c.Export("dragons"); apperrors.CodeOf(err) != apperrors.CodeUnknownSection {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}
