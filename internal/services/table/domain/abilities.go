package domain

// AbilityUse describes what using an ability spent.
type AbilityUse struct {
	Ability  Ability
	Resource Resource
	Spent    int
}

// AddAbility appends an ability to a sheet.
func (s *Session) AddAbility(k Kind, id ID, a Ability) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	name, err := requireName(a.Name)
	if err != nil {
		return err
	}
	a.Name = name
	c.Abilities = append(c.Abilities, a.normalized())
	return nil
}

// UpdateAbility replaces the ability at index.
func (s *Session) UpdateAbility(k Kind, id ID, index int, a Ability) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c.Abilities) {
		return abilityNotFound(index)
	}
	name, err := requireName(a.Name)
	if err != nil {
		return err
	}
	a.Name = name
	c.Abilities[index] = a.normalized()
	return nil
}

// DeleteAbility removes the ability at index.
func (s *Session) DeleteAbility(k Kind, id ID, index int) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c.Abilities) {
		return abilityNotFound(index)
	}
	c.Abilities = append(c.Abilities[:index:index], c.Abilities[index+1:]...)
	return nil
}

// UseAbility pays the cost of the ability at index. Players and allies pay
// from their own Hope; adversaries and monsters spend the keeper's Fear.
// Free abilities change nothing.
func (s *Session) UseAbility(k Kind, id ID, index int) (AbilityUse, error) {
	c, err := s.character(k, id)
	if err != nil {
		return AbilityUse{}, err
	}
	if index < 0 || index >= len(c.Abilities) {
		return AbilityUse{}, abilityNotFound(index)
	}
	a := c.Abilities[index]
	resource := RoleOf(k, *c).CostResource()
	use := AbilityUse{Ability: a, Resource: resource}
	if a.Cost == 0 {
		return use, nil
	}
	switch resource {
	case ResourceHope:
		if c.Hope < a.Cost {
			return AbilityUse{}, insufficientHope(c.Hope, a.Cost)
		}
		c.Hope -= a.Cost
	default:
		if !s.SpendFear(a.Cost) {
			return AbilityUse{}, insufficientFear(s.doc.FearTokens, a.Cost)
		}
	}
	use.Spent = a.Cost
	return use, nil
}
