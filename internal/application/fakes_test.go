package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/domain"
	busDomain "github.com/fleetdash/service-fleet/internal/domain/bus"
	"github.com/fleetdash/service-fleet/internal/domain/geo"
	routeDomain "github.com/fleetdash/service-fleet/internal/domain/route"
	scheduleDomain "github.com/fleetdash/service-fleet/internal/domain/schedule"
	studentDomain "github.com/fleetdash/service-fleet/internal/domain/student"
)

// fakeRoads snaps every point to itself and routes straight lines. Set
// nearestErr to simulate a routing outage.
type fakeRoads struct {
	nearestErr   error
	routeErr     error
	snapOffset   float64
	nearestCalls int
}

func (f *fakeRoads) Nearest(_ context.Context, p geo.Point) (geo.Point, error) {
	f.nearestCalls++
	if f.nearestErr != nil {
		return geo.Point{}, f.nearestErr
	}
	return geo.Point{Lat: p.Lat + f.snapOffset, Lon: p.Lon + f.snapOffset}, nil
}

func (f *fakeRoads) Route(_ context.Context, points []geo.Point) ([]geo.Point, error) {
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	return points, nil
}

type fakeRouteRepo struct {
	routes map[uuid.UUID]*routeDomain.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[uuid.UUID]*routeDomain.Route)}
}

func (r *fakeRouteRepo) FindByID(_ context.Context, id uuid.UUID) (*routeDomain.Route, error) {
	rt, ok := r.routes[id]
	if !ok {
		return nil, domain.NewNotFoundError("route", id.String())
	}
	return rt, nil
}

func (r *fakeRouteRepo) List(_ context.Context, page, limit int, search string) ([]*routeDomain.Route, int64, error) {
	var out []*routeDomain.Route
	for _, rt := range r.routes {
		if search == "" || strings.Contains(strings.ToLower(rt.Name()), strings.ToLower(search)) {
			out = append(out, rt)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRouteRepo) Save(_ context.Context, rt *routeDomain.Route) error {
	r.routes[rt.ID()] = rt
	return nil
}

func (r *fakeRouteRepo) Update(_ context.Context, rt *routeDomain.Route) error {
	r.routes[rt.ID()] = rt
	return nil
}

func (r *fakeRouteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.routes, id)
	return nil
}

func (r *fakeRouteRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.routes)), nil
}

func (r *fakeRouteRepo) CountStops(_ context.Context) (int64, error) {
	var n int64
	for _, rt := range r.routes {
		n += int64(len(rt.Stops()))
	}
	return n, nil
}

type fakeBusRepo struct {
	buses map[uuid.UUID]*busDomain.Bus
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{buses: make(map[uuid.UUID]*busDomain.Bus)}
}

func (r *fakeBusRepo) FindByID(_ context.Context, id uuid.UUID) (*busDomain.Bus, error) {
	b, ok := r.buses[id]
	if !ok {
		return nil, domain.NewNotFoundError("bus", id.String())
	}
	return b, nil
}

func (r *fakeBusRepo) FindByNumber(_ context.Context, number string) (*busDomain.Bus, error) {
	for _, b := range r.buses {
		if b.Number() == number {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("bus", number)
}

func (r *fakeBusRepo) List(_ context.Context, page, limit int, search string) ([]*busDomain.Bus, int64, error) {
	var out []*busDomain.Bus
	for _, b := range r.buses {
		if search == "" || strings.Contains(b.Number(), search) {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBusRepo) Save(_ context.Context, b *busDomain.Bus) error {
	r.buses[b.ID()] = b
	return nil
}

func (r *fakeBusRepo) Update(_ context.Context, b *busDomain.Bus) error {
	r.buses[b.ID()] = b
	return nil
}

func (r *fakeBusRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.buses, id)
	return nil
}

func (r *fakeBusRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.buses)), nil
}

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*scheduleDomain.Schedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[uuid.UUID]*scheduleDomain.Schedule)}
}

func (r *fakeScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*scheduleDomain.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, domain.NewNotFoundError("schedule", id.String())
	}
	return s, nil
}

func (r *fakeScheduleRepo) List(_ context.Context, page, limit int) ([]*scheduleDomain.Schedule, int64, error) {
	all, err := r.ListAll(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return all, int64(len(all)), nil
}

func (r *fakeScheduleRepo) ListAll(_ context.Context) ([]*scheduleDomain.Schedule, error) {
	out := make([]*scheduleDomain.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) Save(_ context.Context, s *scheduleDomain.Schedule) error {
	r.schedules[s.ID()] = s
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.schedules, id)
	return nil
}

func (r *fakeScheduleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.schedules)), nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*studentDomain.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*studentDomain.Student)}
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id uuid.UUID) (*studentDomain.Student, error) {
	st, ok := r.students[id]
	if !ok {
		return nil, domain.NewNotFoundError("student", id.String())
	}
	return st, nil
}

func (r *fakeStudentRepo) FindByRollNumber(_ context.Context, rollNumber string) (*studentDomain.Student, error) {
	for _, st := range r.students {
		if st.RollNumber() == rollNumber {
			return st, nil
		}
	}
	return nil, domain.NewNotFoundError("student", rollNumber)
}

func (r *fakeStudentRepo) List(_ context.Context, page, limit int, search string) ([]*studentDomain.Student, int64, error) {
	var out []*studentDomain.Student
	for _, st := range r.students {
		if search == "" ||
			strings.Contains(strings.ToLower(st.Name()), strings.ToLower(search)) ||
			strings.Contains(strings.ToLower(st.RollNumber()), strings.ToLower(search)) {
			out = append(out, st)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeStudentRepo) Save(_ context.Context, st *studentDomain.Student) error {
	r.students[st.ID()] = st
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, st *studentDomain.Student) error {
	r.students[st.ID()] = st
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.students)), nil
}
