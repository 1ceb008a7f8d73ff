// Package slots подбирает варианты времени для набора услуг по свободному времени мастеров и станциям
package slots

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/capacity"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/requirements"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/schedule"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const (
	DefaultWorkers         = 4
	DefaultMaxCombinations = 5000

	// AutoProfessionals движок сам выбирает минимальное число мастеров
	AutoProfessionals = 0

	maxServices = 64
)

// Config параметры движка
type Config struct {
	Workers         int // размер пула для вычисления свободного времени
	MaxCombinations int // предел перебора комбинаций мастеров на одно число мастеров
}

// Snapshot данные салона на дату, прочитанные один раз до поиска
type Snapshot struct {
	Professionals []domain.Professional
	Days          map[int64]schedule.Day
	Tracker       *capacity.Tracker
}

// Request параметры поиска
type Request struct {
	Set                    *requirements.Set
	Date                   time.Time
	Now                    time.Time
	StepMinutes            int
	MinNoticeMinutes       int
	ProfessionalsRequested int     // 1..N или AutoProfessionals
	ProfessionalIDs        []int64 // явный выбор мастеров (опционально)
	Snapshot               Snapshot
}

// Result найденные слоты
type Result struct {
	Slots             []domain.Slot
	ProfessionalsUsed int
	Truncated         bool // поиск прерван по дедлайну или пределу перебора
}

// Engine генератор слотов. Не хранит состояния между вызовами.
type Engine struct {
	workers         int
	maxCombinations int
}

// NewEngine создает движок
func NewEngine(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MaxCombinations <= 0 {
		cfg.MaxCombinations = DefaultMaxCombinations
	}
	return &Engine{workers: cfg.Workers, maxCombinations: cfg.MaxCombinations}
}

type candidate struct {
	professional domain.Professional
	free         []types.Interval
	mask         uint64 // какие услуги набора выполняет мастер (биты по каноническому порядку)
}

// search состояние одного вызова Generate
type search struct {
	ctx        context.Context
	set        *requirements.Set
	tracker    *capacity.Tracker
	step       int
	candidates []candidate
	fullMask   uint64
	seen       map[string]struct{}
	slots      []domain.Slot
	truncated  bool
	maxCombos  int
}

// Generate возвращает все слоты на дату, отсортированные по времени начала.
// По истечении дедлайна ctx возвращает уже найденные слоты с Truncated=true.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	set := req.Set
	requested := req.ProfessionalsRequested
	if requested > set.MaxProfessionals {
		return nil, fmt.Errorf("%w: requested %d, at most %d for %d services",
			ErrUnsatisfiableProfessionalCount, requested, set.MaxProfessionals, len(set.Services))
	}
	explicit := uniqueIDs(req.ProfessionalIDs)
	if len(explicit) > 0 && requested > len(explicit) {
		return nil, fmt.Errorf("%w: requested %d, only %d professionals chosen",
			ErrUnsatisfiableProfessionalCount, requested, len(explicit))
	}

	empty := &Result{Slots: []domain.Slot{}, ProfessionalsUsed: requested}

	// 1. Пул кандидатов
	pool := candidatePool(set, req.Snapshot.Professionals, explicit)
	if len(pool) == 0 {
		return empty, nil
	}

	// 2. Граница "не раньше чем" для сегодняшней даты
	cutoff := 0
	if sameDay(req.Date, req.Now) {
		cutoff = req.Now.Hour()*60 + req.Now.Minute() + req.MinNoticeMinutes
		if cutoff >= types.MinutesPerDay {
			return empty, nil
		}
	}

	// 3. Свободное время всех кандидатов параллельно
	free, err := e.resolveAll(ctx, pool, req.Snapshot.Days, cutoff)
	if err != nil {
		if ctx.Err() != nil {
			empty.Truncated = true
			return empty, nil
		}
		return nil, err
	}

	s := &search{
		ctx:       ctx,
		set:       set,
		tracker:   req.Snapshot.Tracker,
		step:      req.StepMinutes,
		fullMask:  uint64(1)<<uint(len(set.Services)) - 1,
		maxCombos: e.maxCombinations,
	}
	if s.tracker == nil {
		s.tracker = capacity.NewTracker(nil, nil)
	}
	for i, p := range pool {
		s.candidates = append(s.candidates, candidate{
			professional: p,
			free:         free[i],
			mask:         serviceMask(set, p),
		})
	}

	// 4. Перебор
	if requested != AutoProfessionals {
		s.run(requested)
		return s.result(requested), nil
	}

	for k := 1; k <= set.MaxProfessionals; k++ {
		s.run(k)
		if len(s.slots) > 0 || s.truncated {
			return s.result(k), nil
		}
	}
	return &Result{Slots: []domain.Slot{}, ProfessionalsUsed: AutoProfessionals}, nil
}

func validate(req Request) error {
	if req.Set == nil || len(req.Set.Services) == 0 {
		return fmt.Errorf("%w: empty service set", ErrInvalidRequest)
	}
	if len(req.Set.Services) > maxServices {
		return fmt.Errorf("%w: too many services", ErrInvalidRequest)
	}
	if req.StepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive", ErrInvalidRequest)
	}
	if req.ProfessionalsRequested < 0 {
		return fmt.Errorf("%w: professional count must not be negative", ErrInvalidRequest)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	if isDateInPast(req.Date, req.Now) {
		return ErrInvalidDate
	}
	return nil
}

// candidatePool активные мастера, выполняющие хотя бы одну услугу набора, по возрастанию id
func candidatePool(set *requirements.Set, professionals []domain.Professional, explicit []int64) []domain.Professional {
	allowed := make(map[int64]bool, len(explicit))
	for _, id := range explicit {
		allowed[id] = true
	}

	pool := make([]domain.Professional, 0, len(professionals))
	seen := make(map[int64]bool, len(professionals))
	for _, p := range professionals {
		if !p.Active || seen[p.ID] {
			continue
		}
		if len(allowed) > 0 && !allowed[p.ID] {
			continue
		}
		if serviceMask(set, p) == 0 {
			continue
		}
		seen[p.ID] = true
		pool = append(pool, p)
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool
}

func serviceMask(set *requirements.Set, p domain.Professional) uint64 {
	var mask uint64
	for i, svc := range set.Services {
		if p.Offers(svc.ID) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// resolveAll считает свободное время кандидатов в ограниченном пуле.
// Каждая горутина пишет только в свой индекс результата.
func (e *Engine) resolveAll(ctx context.Context, pool []domain.Professional, days map[int64]schedule.Day, cutoff int) ([][]types.Interval, error) {
	free := make([][]types.Interval, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range pool {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			day := days[p.ID]
			day.ProfessionalID = p.ID
			intervals, err := schedule.Resolve(day)
			if err != nil {
				return err
			}
			if cutoff > 0 {
				intervals = types.SubtractAll(intervals, []types.Interval{types.MustInterval(0, cutoff)})
			}
			free[i] = intervals
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return free, nil
}

func (s *search) result(k int) *Result {
	sort.SliceStable(s.slots, func(i, j int) bool {
		a, b := s.slots[i], s.slots[j]
		if a.Interval.Start() != b.Interval.Start() {
			return a.Interval.Start() < b.Interval.Start()
		}
		if a.Interval.End() != b.Interval.End() {
			return a.Interval.End() < b.Interval.End()
		}
		return lessIDs(a.ProfessionalIDs(), b.ProfessionalIDs())
	})

	slots := s.slots
	if slots == nil {
		slots = []domain.Slot{}
	}
	return &Result{Slots: slots, ProfessionalsUsed: k, Truncated: s.truncated}
}

func (s *search) run(k int) {
	if k <= 1 {
		s.single()
		return
	}
	s.multi(k)
}

// cancelled проверяет дедлайн и помечает результат как неполный
func (s *search) cancelled() bool {
	if s.truncated {
		return true
	}
	if s.ctx.Err() != nil {
		s.truncated = true
	}
	return s.truncated
}

// single один мастер выполняет все услуги подряд.
// Окно длиной в весь план скользит по каждому свободному интервалу с шагом сетки.
func (s *search) single() {
	plan := s.set.Sequential()
	for _, c := range s.candidates {
		if c.mask != s.fullMask {
			continue
		}
		if s.cancelled() {
			return
		}

		for _, iv := range c.free {
			for start := alignUp(iv.Start(), s.step); start+plan.Minutes <= iv.End(); start += s.step {
				placements, err := plan.Place(start)
				if err != nil {
					break
				}
				if !s.tracker.Fits(requirements.Demands(placements)) {
					continue
				}

				assignments := make([]domain.Assignment, len(placements))
				for i, pl := range placements {
					assignments[i] = domain.Assignment{
						ServiceID:      pl.Service.ID,
						ProfessionalID: c.professional.ID,
						Interval:       pl.Interval,
					}
				}
				s.add(assignments)
			}
		}
	}
}

// multi перебирает комбинации из k мастеров с отсечениями:
// мастер, у которого нет свободного окна даже под самую короткую его услугу, исключается;
// ветка обрывается, если оставшиеся мастера уже не покрывают все услуги.
func (s *search) multi(k int) {
	pool := make([]candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if types.Longest(c.free) < s.set.ShortestMinutes(offered(s.set, c.mask)) {
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) < k {
		return
	}

	suffix := make([]uint64, len(pool)+1)
	for i := len(pool) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] | pool[i].mask
	}

	plans := []requirements.Plan{s.set.Parallel(k)}
	if sequential := s.set.Sequential(); len(sequential.Stages) != len(plans[0].Stages) {
		plans = append(plans, sequential)
	}

	combos := 0
	chosen := make([]candidate, 0, k)
	var walk func(from int, mask uint64) bool
	walk = func(from int, mask uint64) bool {
		if len(chosen) == k {
			if mask != s.fullMask {
				return true
			}
			combos++
			if combos > s.maxCombos {
				s.truncated = true
				return false
			}
			if s.cancelled() {
				return false
			}
			s.evaluate(chosen, plans)
			return true
		}

		for i := from; i <= len(pool)-(k-len(chosen)); i++ {
			if mask|suffix[i] != s.fullMask {
				break
			}
			chosen = append(chosen, pool[i])
			next := walk(i+1, mask|pool[i].mask)
			chosen = chosen[:len(chosen)-1]
			if !next {
				return false
			}
		}
		return true
	}
	walk(0, 0)
}

// evaluate проверяет все старты сетки для одной комбинации мастеров
func (s *search) evaluate(combo []candidate, plans []requirements.Plan) {
	lo, hi := types.MinutesPerDay, 0
	for _, c := range combo {
		if len(c.free) == 0 {
			return
		}
		lo = min(lo, c.free[0].Start())
		hi = max(hi, c.free[len(c.free)-1].End())
	}

	shortest := plans[0].Minutes
	for _, p := range plans[1:] {
		shortest = min(shortest, p.Minutes)
	}

	for start := alignUp(lo, s.step); start+shortest <= hi; start += s.step {
		for _, plan := range plans {
			if start+plan.Minutes > hi {
				continue
			}
			placements, err := plan.Place(start)
			if err != nil {
				continue
			}
			assignments, ok := assign(placements, combo)
			if !ok || !s.tracker.Fits(requirements.Demands(placements)) {
				continue
			}
			s.add(assignments)
			break
		}
	}
}

// assign распределяет размещённые услуги по мастерам комбинации.
// Мастера перебираются по возрастанию id, побеждает первое найденное распределение.
// Каждый мастер комбинации должен получить хотя бы одну услугу.
func assign(placements []requirements.Placement, combo []candidate) ([]domain.Assignment, bool) {
	assignments := make([]domain.Assignment, len(placements))
	taken := make([]int, len(combo)) // сколько услуг у мастера
	unused := len(combo)

	var place func(idx int) bool
	place = func(idx int) bool {
		if len(placements)-idx < unused {
			return false
		}
		if idx == len(placements) {
			return unused == 0
		}

		pl := placements[idx]
		for ci, c := range combo {
			if !c.professional.Offers(pl.Service.ID) || !within(c.free, pl.Interval) {
				continue
			}
			if busy(assignments[:idx], c.professional.ID, pl.Interval) {
				continue
			}

			assignments[idx] = domain.Assignment{
				ServiceID:      pl.Service.ID,
				ProfessionalID: c.professional.ID,
				Interval:       pl.Interval,
			}
			taken[ci]++
			if taken[ci] == 1 {
				unused--
			}
			if place(idx + 1) {
				return true
			}
			taken[ci]--
			if taken[ci] == 0 {
				unused++
			}
		}
		return false
	}

	if !place(0) {
		return nil, false
	}
	return assignments, true
}

// busy у мастера уже есть назначение, пересекающееся с interval
func busy(assignments []domain.Assignment, professionalID int64, interval types.Interval) bool {
	for _, a := range assignments {
		if a.ProfessionalID == professionalID && types.Overlaps(a.Interval, interval) {
			return true
		}
	}
	return false
}

// within interval целиком лежит в одном из свободных интервалов
func within(free []types.Interval, interval types.Interval) bool {
	for _, iv := range free {
		if iv.Contains(interval) {
			return true
		}
	}
	return false
}

// add добавляет слот, если такого ещё нет.
// Слоты, отличающиеся только мастером параллельной услуги, считаются одним:
// остаётся первый найденный, то есть с меньшими id мастеров.
func (s *search) add(assignments []domain.Assignment) {
	start, end := types.MinutesPerDay, 0
	for _, a := range assignments {
		start = min(start, a.Interval.Start())
		end = max(end, a.Interval.End())
	}

	slot := domain.Slot{
		Interval:    types.MustInterval(start, end),
		TotalPrice:  s.set.TotalPrice,
		Assignments: assignments,
	}
	slot.TotalDurationMinutes = slot.Interval.Minutes()

	key := slotKey(s.set, slot)
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.slots = append(s.slots, slot)
}

// slotKey время каждой услуги; мастер входит в ключ только для непараллельных услуг
func slotKey(set *requirements.Set, slot domain.Slot) string {
	parts := make([]string, 0, len(slot.Assignments))
	for _, a := range slot.Assignments {
		part := fmt.Sprintf("%d@%d-%d", a.ServiceID, a.Interval.Start(), a.Interval.End())
		if svc, ok := set.Service(a.ServiceID); !ok || !svc.Parallelable {
			part += fmt.Sprintf(">%d", a.ProfessionalID)
		}
		parts = append(parts, part)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func offered(set *requirements.Set, mask uint64) []int64 {
	ids := make([]int64, 0, len(set.Services))
	for i, svc := range set.Services {
		if mask&(1<<uint(i)) != 0 {
			ids = append(ids, svc.ID)
		}
	}
	return ids
}

func alignUp(minutes, step int) int {
	return (minutes + step - 1) / step * step
}

func lessIDs(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
