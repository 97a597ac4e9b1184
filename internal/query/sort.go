package query

import "slices"

// Sort returns items ordered by d. The sort is stable, so records that tie on
// every key keep their input order. An empty directive returns items untouched.
func Sort[T any](items []T, reg *Registry[T], d Directive) ([]T, error) {
	if d.Empty() {
		return items, nil
	}
	keys, err := reg.Resolve(d)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		for _, k := range keys {
			c := k.Field.Compare(a, b)
			if c == 0 {
				continue
			}
			if k.Direction == Descending {
				return -c
			}
			return c
		}
		return 0
	})
	return out, nil
}
