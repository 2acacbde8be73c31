package domain

// Scenes returns a copy of the scene list.
func (s *Session) Scenes() []Scene {
	out := make([]Scene, len(s.doc.Scenes))
	for i, sc := range s.doc.Scenes {
		out[i] = sc.clone()
	}
	return out
}

func (s *Session) scene(id ID) (*Scene, error) {
	i, ok := s.doc.sceneIndex(id)
	if !ok {
		return nil, sceneNotFound(id)
	}
	return &s.doc.Scenes[i], nil
}

// Scene returns a copy of one scene.
func (s *Session) Scene(id ID) (Scene, error) {
	sc, err := s.scene(id)
	if err != nil {
		return Scene{}, err
	}
	return sc.clone(), nil
}

// CurrentScene returns the scene being played. It reports false when the
// session has none.
func (s *Session) CurrentScene() (Scene, bool) {
	sc, err := s.scene(s.doc.CurrentScene)
	if err != nil {
		return Scene{}, false
	}
	return sc.clone(), true
}

// SetCurrentScene switches the scene being played.
func (s *Session) SetCurrentScene(id ID) error {
	if _, err := s.scene(id); err != nil {
		return err
	}
	s.doc.CurrentScene = id
	return nil
}

// AddScene appends a scene. The first scene of an empty session becomes
// current.
func (s *Session) AddScene(in SceneInput) (Scene, error) {
	if _, err := requireName(in.Name); err != nil {
		return Scene{}, err
	}
	ids := make([]ID, len(s.doc.Scenes))
	for i, sc := range s.doc.Scenes {
		ids[i] = sc.ID
	}
	sc := in.apply(Scene{ID: nextID(ids)}).normalized()
	s.doc.Scenes = append(s.doc.Scenes, sc)
	if _, ok := s.CurrentScene(); !ok {
		s.doc.CurrentScene = sc.ID
	}
	return sc.clone(), nil
}

// UpdateScene rewrites the editable fields of a scene. The environment is
// kept.
func (s *Session) UpdateScene(id ID, in SceneInput) error {
	sc, err := s.scene(id)
	if err != nil {
		return err
	}
	if _, err := requireName(in.Name); err != nil {
		return err
	}
	*sc = in.apply(*sc).normalized()
	return nil
}

// DeleteScene removes a scene. Deleting the current scene moves play to
// the first remaining scene, or to none.
func (s *Session) DeleteScene(id ID) error {
	i, ok := s.doc.sceneIndex(id)
	if !ok {
		return sceneNotFound(id)
	}
	s.doc.Scenes = append(s.doc.Scenes[:i:i], s.doc.Scenes[i+1:]...)
	if s.doc.CurrentScene == id {
		s.doc.CurrentScene = 0
		if len(s.doc.Scenes) > 0 {
			s.doc.CurrentScene = s.doc.Scenes[0].ID
		}
	}
	return nil
}

// SetSceneEnvironment sets or, with an empty choice id, clears one layer of
// a scene environment.
func (s *Session) SetSceneEnvironment(id ID, layer Layer, choice EnvironmentChoice) error {
	sc, err := s.scene(id)
	if err != nil {
		return err
	}
	env := sc.Environment
	if !env.set(layer, choice) {
		return invalidAction("unknown environment layer " + string(layer))
	}
	sc.Environment = env
	return nil
}

// SetSceneModifier sets the free-text modifier active in a scene.
func (s *Session) SetSceneModifier(id ID, modifier string) error {
	sc, err := s.scene(id)
	if err != nil {
		return err
	}
	sc.Environment.Modifier = modifier
	return nil
}

// SetScenePresence replaces who is present in a scene. References must
// point at an existing NPC or monster; bare names are matched by name.
func (s *Session) SetScenePresence(id ID, refs []PresenceRef) error {
	sc, err := s.scene(id)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if !ref.Resolved() {
			continue
		}
		if ref.Kind == KindPlayer {
			return invalidAction("players are not scene cast")
		}
		if _, err := s.character(ref.Kind, ref.ID); err != nil {
			return err
		}
	}
	sc.Details.NPCsPresent = s.doc.migratePresence(refs)
	return nil
}

// PresentNames resolves the cast of a scene to display names. References to
// deleted characters are skipped.
func (s *Session) PresentNames(sc Scene) []string {
	names := make([]string, 0, len(sc.Details.NPCsPresent))
	for _, ref := range sc.Details.NPCsPresent {
		if !ref.Resolved() {
			names = append(names, ref.Name)
			continue
		}
		if c, err := s.character(ref.Kind, ref.ID); err == nil {
			names = append(names, c.Name)
		}
	}
	return names
}
