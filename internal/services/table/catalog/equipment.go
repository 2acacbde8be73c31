package catalog

// Equipment is the gear reference. Categories keep the order of the data
// file when listed through the accessor methods.
type Equipment struct {
	Weapons struct {
		Melee   []Weapon `yaml:"melee"`
		Pistols []Weapon `yaml:"pistols"`
		Rifles  []Weapon `yaml:"rifles"`
		Heavy   []Weapon `yaml:"heavy"`
		Special []Weapon `yaml:"special"`
	} `yaml:"weapons"`
	Armor struct {
		Light  []Armor `yaml:"light"`
		Medium []Armor `yaml:"medium"`
		Heavy  []Armor `yaml:"heavy"`
	} `yaml:"armor"`
	Augmentations struct {
		Neural   []Augmentation `yaml:"neural"`
		Physical []Augmentation `yaml:"physical"`
		Sensory  []Augmentation `yaml:"sensory"`
		Bioware  []Augmentation `yaml:"bioware"`
	} `yaml:"augmentations"`
	Features struct {
		Weapons []GearFeature `yaml:"weapons"`
		Armor   []GearFeature `yaml:"armor"`
	} `yaml:"features"`
}

type Weapon struct {
	Name       string `yaml:"name"`
	Range      string `yaml:"range"`
	Trait      string `yaml:"trait"`
	Damage     string `yaml:"damage"`
	Burden     int    `yaml:"burden"`
	Features   string `yaml:"features"`
	Proficiency string `yaml:"prof"`
	Tier       int    `yaml:"tier"`
	Cost       string `yaml:"cost"`
}

type Armor struct {
	Name       string `yaml:"name"`
	Slots      int    `yaml:"slots"`
	Thresholds string `yaml:"thresholds"`
	Score      int    `yaml:"armorScore"`
	Features   string `yaml:"features"`
	Proficiency string `yaml:"prof"`
	Tier       int    `yaml:"tier"`
	Cost       string `yaml:"cost"`
}

type Augmentation struct {
	Name       string `yaml:"name"`
	Benefit    string `yaml:"benefit"`
	Drawback   string `yaml:"drawback"`
	Stress     string `yaml:"stress"`
	Proficiency string `yaml:"prof"`
	Tier       int    `yaml:"tier"`
	Cost       string `yaml:"cost"`
	Strain     int    `yaml:"strain"`
}

type GearFeature struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

// Group is a named slice of one equipment category.
type Group[T any] struct {
	Name  string
	Items []T
}

// Equipment returns the gear reference.
func (c *Catalog) Equipment() Equipment {
	return c.equipment
}

// WeaponGroups lists weapons by category.
func (e Equipment) WeaponGroups() []Group[Weapon] {
	w := e.Weapons
	return []Group[Weapon]{
		{"Melee", w.Melee},
		{"Pistols", w.Pistols},
		{"Rifles", w.Rifles},
		{"Heavy", w.Heavy},
		{"Special", w.Special},
	}
}

// ArmorGroups lists armor by weight.
func (e Equipment) ArmorGroups() []Group[Armor] {
	a := e.Armor
	return []Group[Armor]{
		{"Light", a.Light},
		{"Medium", a.Medium},
		{"Heavy", a.Heavy},
	}
}

// AugmentationGroups lists augmentations by kind.
func (e Equipment) AugmentationGroups() []Group[Augmentation] {
	a := e.Augmentations
	return []Group[Augmentation]{
		{"Neural", a.Neural},
		{"Physical", a.Physical},
		{"Sensory", a.Sensory},
		{"Bioware", a.Bioware},
	}
}
