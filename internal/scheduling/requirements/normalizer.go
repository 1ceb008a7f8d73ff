// Package requirements приводит выбранный клиентом набор услуг к плану выполнения
package requirements

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/capacity"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

type pair struct {
	a, b int64
}

// Set нормализованный набор услуг
type Set struct {
	Services          []domain.Service // канонический порядок выполнения
	SequentialMinutes int              // все услуги подряд
	ParallelMinutes   int              // максимально параллельный план
	MaxProfessionals  int              // сколько мастеров максимум можно занять (по одной услуге на мастера)
	TotalPrice        decimal.Decimal

	index        map[int64]int     // id услуги -> позиция в Services
	precedes     map[pair]bool     // транзитивное замыкание графа порядка
	incompatible map[pair]bool     // пары, которые нельзя выполнять одновременно
	edges        map[int64][]int64 // прямые рёбра графа порядка
}

// Normalize строит Set из услуг в порядке выбора клиентом и правил совместимости.
// Правила, не относящиеся к выбранным услугам, игнорируются.
func Normalize(services []domain.Service, rules []domain.ServiceCompatibility) (*Set, error) {
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleServiceSet, ErrEmptyServiceSet)
	}

	selection := make(map[int64]int, len(services))
	for i, s := range services {
		if _, dup := selection[s.ID]; dup {
			return nil, fmt.Errorf("%w: %w: id=%d", ErrIncompatibleServiceSet, ErrDuplicateService, s.ID)
		}
		if s.DurationMinutes <= 0 || s.DurationMinutes > types.MinutesPerDay {
			return nil, fmt.Errorf("%w: service id=%d duration %d", ErrInvalidService, s.ID, s.DurationMinutes)
		}
		selection[s.ID] = i
	}

	set := &Set{
		precedes:     make(map[pair]bool),
		incompatible: make(map[pair]bool),
		edges:        make(map[int64][]int64),
	}

	// 1. Граф порядка и несовместимые пары
	compatibility := make(map[pair]bool)
	for _, rule := range rules {
		_, okA := selection[rule.ServiceAID]
		_, okB := selection[rule.ServiceBID]
		if !okA || !okB || rule.ServiceAID == rule.ServiceBID {
			continue
		}
		if !rule.OrderConstraint.IsValid() {
			return nil, fmt.Errorf("%w: unknown order constraint %q for services %d and %d",
				ErrIncompatibleServiceSet, rule.OrderConstraint, rule.ServiceAID, rule.ServiceBID)
		}

		key := normalizedPair(rule.ServiceAID, rule.ServiceBID)
		if prev, seen := compatibility[key]; seen && prev != rule.Compatible {
			return nil, fmt.Errorf("%w: contradicting compatibility for services %d and %d",
				ErrIncompatibleServiceSet, rule.ServiceAID, rule.ServiceBID)
		}
		compatibility[key] = rule.Compatible
		if !rule.Compatible {
			set.incompatible[key] = true
		}

		switch rule.OrderConstraint {
		case domain.OrderBefore:
			set.addEdge(rule.ServiceAID, rule.ServiceBID)
		case domain.OrderAfter:
			set.addEdge(rule.ServiceBID, rule.ServiceAID)
		}
	}

	// 2. Топологическая сортировка, при равенстве - порядок выбора
	order, err := topologicalOrder(services, set.edges)
	if err != nil {
		return nil, err
	}

	set.Services = order
	set.index = make(map[int64]int, len(order))
	for i, s := range order {
		set.index[s.ID] = i
	}
	set.closeOrder()

	// 3. Итоги
	set.TotalPrice = decimal.Zero
	for _, s := range order {
		set.SequentialMinutes += s.DurationMinutes
		set.TotalPrice = set.TotalPrice.Add(s.Price)
	}
	set.ParallelMinutes = set.Parallel(len(order)).Minutes
	set.MaxProfessionals = len(order)

	return set, nil
}

func normalizedPair(a, b int64) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

func (s *Set) addEdge(from, to int64) {
	for _, existing := range s.edges[from] {
		if existing == to {
			return
		}
	}
	s.edges[from] = append(s.edges[from], to)
}

// topologicalOrder алгоритм Кана. Из готовых вершин берётся выбранная клиентом раньше.
func topologicalOrder(services []domain.Service, edges map[int64][]int64) ([]domain.Service, error) {
	inDegree := make(map[int64]int, len(services))
	for _, targets := range edges {
		for _, to := range targets {
			inDegree[to]++
		}
	}

	done := make([]bool, len(services))
	order := make([]domain.Service, 0, len(services))
	for len(order) < len(services) {
		next := -1
		for i, s := range services {
			if !done[i] && inDegree[s.ID] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: execution order rules form a cycle", ErrIncompatibleServiceSet)
		}

		done[next] = true
		current := services[next]
		order = append(order, current)
		for _, to := range edges[current.ID] {
			inDegree[to]--
		}
	}

	return order, nil
}

// closeOrder строит транзитивное замыкание отношения "выполняется раньше"
func (s *Set) closeOrder() {
	for _, start := range s.Services {
		stack := append([]int64(nil), s.edges[start.ID]...)
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			key := pair{a: start.ID, b: current}
			if s.precedes[key] {
				continue
			}
			s.precedes[key] = true
			stack = append(stack, s.edges[current]...)
		}
	}
}

// MustPrecede услуга a обязана закончиться до начала услуги b
func (s *Set) MustPrecede(a, b int64) bool {
	return s.precedes[pair{a: a, b: b}]
}

// Ordered между услугами есть ограничение порядка в любую сторону
func (s *Set) Ordered(a, b int64) bool {
	return s.MustPrecede(a, b) || s.MustPrecede(b, a)
}

// Compatible услуги можно выполнять одновременно
func (s *Set) Compatible(a, b int64) bool {
	return !s.incompatible[normalizedPair(a, b)]
}

// ServiceIDs id услуг в каноническом порядке
func (s *Set) ServiceIDs() []int64 {
	ids := make([]int64, len(s.Services))
	for i, svc := range s.Services {
		ids[i] = svc.ID
	}
	return ids
}

// Service возвращает услугу набора по id
func (s *Set) Service(id int64) (domain.Service, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Service{}, false
	}
	return s.Services[i], true
}

// ShortestMinutes минимальная длительность среди услуг из ids, принадлежащих набору (0, если таких нет)
func (s *Set) ShortestMinutes(ids []int64) int {
	shortest := 0
	for _, id := range ids {
		svc, ok := s.Service(id)
		if !ok {
			continue
		}
		if shortest == 0 || svc.DurationMinutes < shortest {
			shortest = svc.DurationMinutes
		}
	}
	return shortest
}

// Stage этап плана: услуги этапа стартуют одновременно у разных мастеров
type Stage struct {
	Services []domain.Service
	Offset   int // минут от начала слота
	Minutes  int // длительность самой долгой услуги этапа
}

// Plan последовательность этапов
type Plan struct {
	Stages  []Stage
	Minutes int // общая длительность
	Width   int // самый широкий этап
}

// Sequential план "всё подряд": каждая услуга отдельным этапом
func (s *Set) Sequential() Plan {
	return s.buildPlan(1)
}

// Parallel максимально параллельный план с шириной этапа не больше maxWidth
func (s *Set) Parallel(maxWidth int) Plan {
	return s.buildPlan(maxWidth)
}

// PlanFor план для k мастеров: один мастер выполняет всё подряд
func (s *Set) PlanFor(professionals int) Plan {
	if professionals <= 1 {
		return s.Sequential()
	}
	return s.Parallel(professionals)
}

// buildPlan жадно набирает этапы в каноническом порядке.
// Услуга входит в текущий этап, если все участники и она сама параллелятся,
// попарно совместимы, не связаны порядком и ширина не превышает ограничений.
func (s *Set) buildPlan(maxWidth int) Plan {
	if maxWidth < 1 {
		maxWidth = 1
	}

	stages := make([]Stage, 0, len(s.Services))
	var current []domain.Service
	flush := func() {
		if len(current) == 0 {
			return
		}
		stages = append(stages, Stage{Services: current})
		current = nil
	}

	for _, svc := range s.Services {
		if !s.canJoin(current, svc, maxWidth) {
			flush()
		}
		current = append(current, svc)
	}
	flush()

	plan := Plan{Stages: stages}
	for i := range plan.Stages {
		stage := &plan.Stages[i]
		stage.Offset = plan.Minutes
		for _, svc := range stage.Services {
			if svc.DurationMinutes > stage.Minutes {
				stage.Minutes = svc.DurationMinutes
			}
		}
		plan.Minutes += stage.Minutes
		if len(stage.Services) > plan.Width {
			plan.Width = len(stage.Services)
		}
	}
	return plan
}

func (s *Set) canJoin(stage []domain.Service, svc domain.Service, maxWidth int) bool {
	if len(stage) == 0 {
		return true
	}
	if !svc.Parallelable {
		return false
	}

	width := len(stage) + 1
	if width > maxWidth || width > svc.ParallelLimit() {
		return false
	}
	for _, member := range stage {
		if !member.Parallelable || width > member.ParallelLimit() {
			return false
		}
		if !s.Compatible(member.ID, svc.ID) || s.Ordered(member.ID, svc.ID) {
			return false
		}
	}
	return true
}

// Placement услуга плана, размещённая во времени
type Placement struct {
	Stage    int
	Service  domain.Service
	Interval types.Interval
}

// Place размещает план с началом в start минут. Ошибка, если план выходит за пределы суток.
func (p Plan) Place(start int) ([]Placement, error) {
	placements := make([]Placement, 0, len(p.Stages))
	for i, stage := range p.Stages {
		for _, svc := range stage.Services {
			iv, err := types.NewInterval(start+stage.Offset, start+stage.Offset+svc.DurationMinutes)
			if err != nil {
				return nil, err
			}
			placements = append(placements, Placement{Stage: i, Service: svc, Interval: iv})
		}
	}
	return placements, nil
}

// Demands потребность в станциях для размещённых услуг
func Demands(placements []Placement) []capacity.Usage {
	demands := make([]capacity.Usage, 0, len(placements))
	for _, pl := range placements {
		for _, req := range pl.Service.StationRequirements {
			demands = append(demands, capacity.Usage{
				StationTypeID: req.StationTypeID,
				Qty:           req.Qty,
				Interval:      pl.Interval,
			})
		}
	}
	return demands
}
