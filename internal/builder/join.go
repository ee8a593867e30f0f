package builder

import "github.com/tobsdb/tdbrel/pkg"

// Equi-join declared between two tables over a field both share.
type JoinDef struct {
	Table1 string
	Table2 string
	Field  string
}

// Unordered pair of table names.
type joinKey struct{ a, b string }

func newJoinKey(t1, t2 string) joinKey {
	if t2 < t1 {
		t1, t2 = t2, t1
	}
	return joinKey{t1, t2}
}

// Joins holds at most one join per unordered pair of tables.
type Joins struct {
	defs pkg.Map[joinKey, *JoinDef]
}

func NewJoins() *Joins {
	return &Joins{pkg.Map[joinKey, *JoinDef]{}}
}

func (j *Joins) Has(t1, t2 string) bool {
	return j.defs.Has(newJoinKey(t1, t2))
}

func (j *Joins) Get(t1, t2 string) (*JoinDef, bool) {
	def, ok := j.defs[newJoinKey(t1, t2)]
	return def, ok
}

func (j *Joins) Set(def *JoinDef) {
	j.defs.Set(newJoinKey(def.Table1, def.Table2), def)
}

func (j *Joins) Delete(t1, t2 string) bool {
	key := newJoinKey(t1, t2)
	if !j.defs.Has(key) {
		return false
	}
	j.defs.Delete(key)
	return true
}

func (j *Joins) Len() int { return len(j.defs) }

// All returns every join definition.
func (j *Joins) All() []*JoinDef {
	defs := make([]*JoinDef, 0, len(j.defs))
	for _, def := range j.defs {
		defs = append(defs, def)
	}
	return defs
}
