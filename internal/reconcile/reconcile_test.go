package reconcile

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/google/uuid"
)

type item struct {
	ID    *uuid.UUID
	Order int
	Name  string
}

func itemIdentity(i item) *uuid.UUID { return i.ID }

func itemOrder(i *item, order int) { i.Order = order }

func ref(id uuid.UUID) *uuid.UUID { return &id }

func TestPartitionDeleteAddKeep(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	previous := []item{
		{ID: ref(id1), Order: 1, Name: "paso viejo"},
		{ID: ref(id2), Order: 2, Name: "paso que queda"},
	}
	next := []item{
		{ID: nil, Order: 0, Name: "paso nuevo"},
		{ID: ref(id2), Order: 0, Name: "paso que queda"},
	}

	res := Partition(previous, next, itemIdentity, itemOrder)

	if !reflect.DeepEqual(res.ToDelete, []uuid.UUID{id1}) {
		t.Fatalf("ToDelete=%v, want [%v]", res.ToDelete, id1)
	}
	if len(res.ToInsert) != 1 || res.ToInsert[0].Name != "paso nuevo" || res.ToInsert[0].Order != 1 {
		t.Fatalf("ToInsert=%+v", res.ToInsert)
	}
	if len(res.ToUpdate) != 1 || *res.ToUpdate[0].ID != id2 || res.ToUpdate[0].Order != 2 {
		t.Fatalf("ToUpdate=%+v", res.ToUpdate)
	}
}

func TestPartitionCompleteness(t *testing.T) {
	ids := make([]uuid.UUID, 6)
	for i := range ids {
		ids[i] = uuid.New()
	}
	cases := []struct {
		name     string
		previous []item
		next     []item
	}{
		{name: "both_empty"},
		{
			name: "all_new",
			next: []item{{Name: "a"}, {Name: "b"}},
		},
		{
			name:     "all_deleted",
			previous: []item{{ID: ref(ids[0])}, {ID: ref(ids[1])}},
		},
		{
			name:     "mixed_reorder",
			previous: []item{{ID: ref(ids[0])}, {ID: ref(ids[1])}, {ID: ref(ids[2])}},
			next:     []item{{ID: ref(ids[2])}, {Name: "nuevo"}, {ID: ref(ids[0])}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Partition(tc.previous, tc.next, itemIdentity, itemOrder)

			if got := len(res.ToInsert) + len(res.ToUpdate); got != len(tc.next) {
				t.Fatalf("insert+update=%d, want len(next)=%d", got, len(tc.next))
			}
			for _, ins := range res.ToInsert {
				if ins.ID != nil {
					for _, upd := range res.ToUpdate {
						if upd.ID != nil && *upd.ID == *ins.ID {
							t.Fatalf("id %v in both insert and update", *ins.ID)
						}
					}
				}
			}
			survivors := map[uuid.UUID]struct{}{}
			for _, n := range tc.next {
				if n.ID != nil {
					survivors[*n.ID] = struct{}{}
				}
			}
			for _, p := range tc.previous {
				_, kept := survivors[*p.ID]
				deleted := false
				for _, d := range res.ToDelete {
					if d == *p.ID {
						deleted = true
					}
				}
				if kept == deleted {
					t.Fatalf("previous id %v: kept=%v deleted=%v", *p.ID, kept, deleted)
				}
			}
		})
	}
}

func TestPartitionOrderDensity(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	previous := []item{{ID: ref(id1), Order: 7}, {ID: ref(id2), Order: 3}}
	next := []item{
		{ID: ref(id2)},
		{Name: "x"},
		{ID: ref(id1)},
		{Name: "y"},
	}
	res := Partition(previous, next, itemIdentity, itemOrder)

	var orders []int
	for _, it := range append(res.ToInsert, res.ToUpdate...) {
		orders = append(orders, it.Order)
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			t.Fatalf("orders=%v, want dense 1-based sequence", orders)
		}
	}
}

func TestPartitionUnknownIDBecomesInsert(t *testing.T) {
	stray := uuid.New()
	res := Partition(nil, []item{{ID: ref(stray)}}, itemIdentity, itemOrder)
	if len(res.ToInsert) != 1 || len(res.ToUpdate) != 0 {
		t.Fatalf("res=%+v", res)
	}
}

func TestOpError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &OpError{Op: OpDelete, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("OpError should unwrap its cause")
	}
	if got := err.Error(); got != fmt.Sprintf("reconcile delete: %v", cause) {
		t.Fatalf("Error()=%q", got)
	}
}
