package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"pickup-delivery-planner/internal/domain"
	"strconv"
)

type VehicleInput struct {
	ID       *int          `json:"id"`
	Position *domain.Point `json:"position"`
	MaxLoad  *int          `json:"maxLoad"`
}

type OrderInput struct {
	ID       *int          `json:"id"`
	Pickup   *domain.Point `json:"pickup"`
	Delivery *domain.Point `json:"delivery"`
	Weight   *int          `json:"weight"`
}

// Input is the planning request as posted by the dispatcher.
type Input struct {
	Vehicles          []VehicleInput `json:"vehicles"`
	Orders            []OrderInput   `json:"orders"`
	ManualConstraints PinMap         `json:"manualConstraints"`
}

// PinMap decodes the {"<orderId>": vehicleId} object while keeping key order,
// which decides the order pins are applied in.
type PinMap domain.ManualConstraints

func (m *PinMap) UnmarshalJSON(data []byte) error {
	*m = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("manualConstraints: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("manualConstraints: must be an object of order id to vehicle id")
	}

	pins := domain.ManualConstraints{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("manualConstraints: %w", err)
		}
		key, _ := tok.(string)
		orderID, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("manualConstraints: order id %q is not an integer", key)
		}

		var vehicleID int
		if err := dec.Decode(&vehicleID); err != nil {
			return fmt.Errorf("manualConstraints: order %d: vehicle id: %w", orderID, err)
		}

		pins.Set(orderID, vehicleID)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("manualConstraints: %w", err)
	}

	*m = PinMap(pins)
	return nil
}

func (m PinMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pin := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", strconv.Itoa(pin.OrderID), pin.VehicleID)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeInput reads exactly one JSON object from r.
func DecodeInput(r io.Reader) (*Input, error) {
	var in Input

	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode input: body must contain only one JSON object")
	}

	return &in, nil
}

// DecodeSnapshot reads and validates one planning input.
func DecodeSnapshot(r io.Reader) (*domain.Snapshot, error) {
	in, err := DecodeInput(r)
	if err != nil {
		return nil, err
	}
	return in.Snapshot()
}

// Snapshot converts the input to domain values, rejecting missing fields.
func (in *Input) Snapshot() (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Vehicles:          make([]*domain.Vehicle, 0, len(in.Vehicles)),
		Orders:            make([]*domain.Order, 0, len(in.Orders)),
		ManualConstraints: domain.ManualConstraints(in.ManualConstraints),
	}

	for i, v := range in.Vehicles {
		if v.ID == nil || v.Position == nil || v.MaxLoad == nil {
			return nil, fmt.Errorf("input: vehicle at index %d: id, position and maxLoad are required", i)
		}
		snap.Vehicles = append(snap.Vehicles, &domain.Vehicle{
			ID:       *v.ID,
			Position: *v.Position,
			MaxLoad:  *v.MaxLoad,
		})
	}

	for i, o := range in.Orders {
		if o.ID == nil || o.Pickup == nil || o.Delivery == nil || o.Weight == nil {
			return nil, fmt.Errorf("input: order at index %d: id, pickup, delivery and weight are required", i)
		}
		snap.Orders = append(snap.Orders, &domain.Order{
			ID:       *o.ID,
			Pickup:   *o.Pickup,
			Delivery: *o.Delivery,
			Weight:   *o.Weight,
		})
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}

	return snap, nil
}

// FromSnapshot builds the wire form of a snapshot.
func FromSnapshot(snap *domain.Snapshot) *Input {
	in := &Input{
		Vehicles:          make([]VehicleInput, 0, len(snap.Vehicles)),
		Orders:            make([]OrderInput, 0, len(snap.Orders)),
		ManualConstraints: PinMap(snap.ManualConstraints),
	}
	for _, v := range snap.Vehicles {
		in.Vehicles = append(in.Vehicles, VehicleInput{ID: &v.ID, Position: &v.Position, MaxLoad: &v.MaxLoad})
	}
	for _, o := range snap.Orders {
		in.Orders = append(in.Orders, OrderInput{ID: &o.ID, Pickup: &o.Pickup, Delivery: &o.Delivery, Weight: &o.Weight})
	}
	return in
}
