package diopter

import "fmt"

// Key is the canonical identity of a grid cell: the formatted SPH and CYL
// strings. Two cells are the same exactly when both formatted values match,
// which makes a Key safe as a map key across selection, pricing and
// reconciliation.
type Key struct {
	Sph string
	Cyl string
}

// KeyOf builds the key for a value pair.
func KeyOf(sph, cyl Value) Key {
	return Key{Sph: sph.Format(), Cyl: cyl.Format()}
}

// ParseKey rebuilds a key from externally supplied component strings,
// normalizing them through the codec so non-canonical spellings ("2.25",
// "-2.250") land on the canonical key.
func ParseKey(sph, cyl string) (Key, error) {
	s, err := Parse(sph)
	if err != nil {
		return Key{}, fmt.Errorf("sph: %w", err)
	}
	c, err := Parse(cyl)
	if err != nil {
		return Key{}, fmt.Errorf("cyl: %w", err)
	}
	return KeyOf(s, c), nil
}

// Values decodes the key back into its numeric pair.
func (k Key) Values() (sph, cyl Value, err error) {
	sph, err = Parse(k.Sph)
	if err != nil {
		return 0, 0, err
	}
	cyl, err = Parse(k.Cyl)
	if err != nil {
		return 0, 0, err
	}
	return sph, cyl, nil
}

// String renders the key as "sph,cyl", the spelling used in wire payloads and
// logs.
func (k Key) String() string {
	return k.Sph + "," + k.Cyl
}
