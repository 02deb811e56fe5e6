// Package dialog implements the estimation conversation: a linear state
// machine that collects one validated attribute per turn and prices the
// apartment once all of them are known.
package dialog

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/pricing"
	"github.com/xaenox/flatprice-bot/internal/validate"
)

// ErrCorruptSession is returned when a stored session is in a state its
// collected fields cannot support.
var ErrCorruptSession = errors.New("corrupt session")

type Estimator interface {
	Estimate(apt models.Apartment) (pricing.Quote, error)
}

// Machine applies actions to sessions. It keeps no per-session state of its
// own and is safe for concurrent use on distinct sessions.
type Machine struct {
	districts      *catalog.Dictionary
	apartmentTypes *catalog.Dictionary
	estimator      Estimator
	logger         *zap.Logger
}

func NewMachine(districts, apartmentTypes *catalog.Dictionary, estimator Estimator, logger *zap.Logger) *Machine {
	return &Machine{
		districts:      districts,
		apartmentTypes: apartmentTypes,
		estimator:      estimator,
		logger:         logger,
	}
}

// Handle applies one action to the session and returns the reply. A non-nil
// error is a schema or scoring failure; the reply then carries a generic
// notice and the session is back to idle.
func (m *Machine) Handle(s *models.Session, a Action) (Reply, error) {
	switch a.Kind {
	case ActionBegin:
		s.Reset()
		s.State = models.StateAwaitingDistrict
		return m.prompt(s.State), nil
	case ActionCancel:
		if s.State == models.StateIdle {
			return Reply{Text: textNothingToDo, State: models.StateIdle, Menu: true}, nil
		}
		s.Reset()
		return Reply{Text: textCancelled, State: models.StateIdle, Menu: true}, nil
	}

	switch s.State {
	case models.StateIdle:
		return Reply{Text: textIdle, State: models.StateIdle, Menu: true}, nil
	case models.StateAwaitingDistrict:
		return m.onDistrict(s, a), nil
	case models.StateAwaitingArea:
		return m.onArea(s, a), nil
	case models.StateAwaitingApartmentType:
		return m.onApartmentType(s, a), nil
	case models.StateAwaitingCurrentFloor:
		return m.onCurrentFloor(s, a), nil
	case models.StateAwaitingTotalFloors:
		return m.onTotalFloors(s, a)
	default:
		state := s.State
		s.Reset()
		return m.failed(), fmt.Errorf("%w: unknown state %q", ErrCorruptSession, state)
	}
}

// prompt is the question asked on entering state.
func (m *Machine) prompt(state models.State) Reply {
	r := Reply{State: state}
	switch state {
	case models.StateAwaitingDistrict:
		r.Text = textAskDistrict
		r.Choices = m.districts.Labels()
	case models.StateAwaitingArea:
		r.Text = textAskArea
	case models.StateAwaitingApartmentType:
		r.Text = textAskApartmentType
		r.Choices = m.apartmentTypes.Labels()
	case models.StateAwaitingCurrentFloor:
		r.Text = textAskCurrentFloor
	case models.StateAwaitingTotalFloors:
		r.Text = textAskTotalFloors
	default:
		r.Text = textIdle
		r.Menu = true
	}
	return r
}

// invalid re-asks the current question after a rejected action.
func (m *Machine) invalid(s *models.Session, reason string) Reply {
	r := m.prompt(s.State)
	r.Text = reason + "\n\n" + r.Text
	r.Invalid = true
	return r
}

func (m *Machine) rejected(s *models.Session, err error) Reply {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return m.invalid(s, verr.Reason)
	}
	return m.invalid(s, err.Error())
}

// wrongKind handles an action of the wrong kind for the current question,
// e.g. typed text while a button press is expected.
func (m *Machine) wrongKind(s *models.Session, a Action, d *catalog.Dictionary) Reply {
	if d == nil {
		return m.invalid(s, textTypeValue)
	}
	reason := textUseButtons
	if label, ok := d.Suggest(a.Value); ok {
		reason += " " + didYouMean(label)
	}
	return m.invalid(s, reason)
}

func (m *Machine) failed() Reply {
	return Reply{Text: textFailed, State: models.StateIdle, Menu: true}
}

func (m *Machine) onDistrict(s *models.Session, a Action) Reply {
	if a.Kind != ActionChoice {
		return m.wrongKind(s, a, m.districts)
	}
	code, err := validate.District(m.districts, a.Value)
	if err != nil {
		return m.rejected(s, err)
	}
	s.DistrictCode = &code
	s.DistrictName = a.Value
	s.State = models.StateAwaitingArea

	r := m.prompt(s.State)
	r.Text = fmt.Sprintf(textDistrictDone, a.Value, r.Text)
	return r
}

func (m *Machine) onArea(s *models.Session, a Action) Reply {
	if a.Kind != ActionText {
		return m.wrongKind(s, a, nil)
	}
	area, err := validate.Area(a.Value)
	if err != nil {
		return m.rejected(s, err)
	}
	s.Area = &area
	s.State = models.StateAwaitingApartmentType
	return m.prompt(s.State)
}

func (m *Machine) onApartmentType(s *models.Session, a Action) Reply {
	if a.Kind != ActionChoice {
		return m.wrongKind(s, a, m.apartmentTypes)
	}
	code, err := validate.ApartmentType(m.apartmentTypes, a.Value)
	if err != nil {
		return m.rejected(s, err)
	}
	s.ApartmentTypeCode = &code
	s.ApartmentTypeName = a.Value
	s.State = models.StateAwaitingCurrentFloor
	return m.prompt(s.State)
}

func (m *Machine) onCurrentFloor(s *models.Session, a Action) Reply {
	if a.Kind != ActionText {
		return m.wrongKind(s, a, nil)
	}
	floor, err := validate.CurrentFloor(a.Value)
	if err != nil {
		return m.rejected(s, err)
	}
	s.CurrentFloor = &floor
	s.State = models.StateAwaitingTotalFloors
	return m.prompt(s.State)
}

func (m *Machine) onTotalFloors(s *models.Session, a Action) (Reply, error) {
	if a.Kind != ActionText {
		return m.wrongKind(s, a, nil), nil
	}
	if s.CurrentFloor == nil {
		s.Reset()
		return m.failed(), fmt.Errorf("%w: total floors requested before current floor", ErrCorruptSession)
	}
	total, err := validate.TotalFloors(a.Value, *s.CurrentFloor)
	if err != nil {
		return m.rejected(s, err), nil
	}
	s.TotalFloors = &total

	apt, err := s.Apartment()
	if err != nil {
		s.Reset()
		return m.failed(), fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	districtName, typeName := s.DistrictName, s.ApartmentTypeName

	quote, err := m.estimator.Estimate(apt)
	s.Reset()
	if err != nil {
		return m.failed(), fmt.Errorf("estimate: %w", err)
	}

	m.logger.Info("Estimate produced",
		zap.Int64("chat_id", s.ChatID),
		zap.Int("district_code", apt.DistrictCode),
		zap.Float64("area", apt.Area),
		zap.Int64("price", quote.Price))

	return Reply{
		Text:  quoteText(quote),
		State: models.StateIdle,
		Menu:  true,
		Result: &Result{
			Apartment:         apt,
			DistrictName:      districtName,
			ApartmentTypeName: typeName,
			Quote:             quote,
		},
	}, nil
}
