package solver

// RecordType tags one Jacobian record kind in a stream.
type RecordType uint8

const (
	RecordLinearLimit RecordType = iota
	RecordAngularLimit1D
	RecordAngularLimit2D
	RecordAngularLimit3D
	RecordPositionMotor
	RecordLinearVelocityMotor
	RecordRotationMotor
	RecordAngularVelocityMotor
)

func (t RecordType) String() string {
	switch t {
	case RecordLinearLimit:
		return "linear-limit"
	case RecordAngularLimit1D:
		return "angular-limit-1d"
	case RecordAngularLimit2D:
		return "angular-limit-2d"
	case RecordAngularLimit3D:
		return "angular-limit-3d"
	case RecordPositionMotor:
		return "position-motor"
	case RecordLinearVelocityMotor:
		return "linear-velocity-motor"
	case RecordRotationMotor:
		return "rotation-motor"
	case RecordAngularVelocityMotor:
		return "angular-velocity-motor"
	default:
		return "unknown"
	}
}

// Header tags one record in a stream: its kind, the owning body pair, and
// the arena slot of its payload. Headers are immutable after the write.
type Header struct {
	Type         RecordType
	BodyA, BodyB int
	slot         int32
}

// Stream is an append-only log of heterogeneous Jacobian records.
// Payloads live in one arena per record kind so the stream allocates no
// per-record boxes; the header order is the solve order. A stream is
// written by one goroutine and later read by one goroutine; independent
// streams may be written and solved in parallel.
type Stream struct {
	headers []Header

	linear  []LinearLimitJacobian
	ang1    []AngularLimit1DJacobian
	ang2    []AngularLimit2DJacobian
	ang3    []AngularLimit3DJacobian
	posMot  []PositionMotorJacobian
	linVMot []LinearVelocityMotorJacobian
	rotMot  []RotationMotorJacobian
	angVMot []AngularVelocityMotorJacobian
}

// Len is the number of records written so far.
func (s *Stream) Len() int { return len(s.headers) }

// Reset clears the stream for the next step, keeping arena capacity.
func (s *Stream) Reset() {
	s.headers = s.headers[:0]
	s.linear = s.linear[:0]
	s.ang1 = s.ang1[:0]
	s.ang2 = s.ang2[:0]
	s.ang3 = s.ang3[:0]
	s.posMot = s.posMot[:0]
	s.linVMot = s.linVMot[:0]
	s.rotMot = s.rotMot[:0]
	s.angVMot = s.angVMot[:0]
}

func (s *Stream) push(t RecordType, bodyA, bodyB int, slot int) {
	s.headers = append(s.headers, Header{Type: t, BodyA: bodyA, BodyB: bodyB, slot: int32(slot)})
}

func (s *Stream) PushLinearLimit(bodyA, bodyB int, j LinearLimitJacobian) {
	s.linear = append(s.linear, j)
	s.push(RecordLinearLimit, bodyA, bodyB, len(s.linear)-1)
}

func (s *Stream) PushAngularLimit1D(bodyA, bodyB int, j AngularLimit1DJacobian) {
	s.ang1 = append(s.ang1, j)
	s.push(RecordAngularLimit1D, bodyA, bodyB, len(s.ang1)-1)
}

func (s *Stream) PushAngularLimit2D(bodyA, bodyB int, j AngularLimit2DJacobian) {
	s.ang2 = append(s.ang2, j)
	s.push(RecordAngularLimit2D, bodyA, bodyB, len(s.ang2)-1)
}

func (s *Stream) PushAngularLimit3D(bodyA, bodyB int, j AngularLimit3DJacobian) {
	s.ang3 = append(s.ang3, j)
	s.push(RecordAngularLimit3D, bodyA, bodyB, len(s.ang3)-1)
}

func (s *Stream) PushPositionMotor(bodyA, bodyB int, j PositionMotorJacobian) {
	s.posMot = append(s.posMot, j)
	s.push(RecordPositionMotor, bodyA, bodyB, len(s.posMot)-1)
}

func (s *Stream) PushLinearVelocityMotor(bodyA, bodyB int, j LinearVelocityMotorJacobian) {
	s.linVMot = append(s.linVMot, j)
	s.push(RecordLinearVelocityMotor, bodyA, bodyB, len(s.linVMot)-1)
}

func (s *Stream) PushRotationMotor(bodyA, bodyB int, j RotationMotorJacobian) {
	s.rotMot = append(s.rotMot, j)
	s.push(RecordRotationMotor, bodyA, bodyB, len(s.rotMot)-1)
}

func (s *Stream) PushAngularVelocityMotor(bodyA, bodyB int, j AngularVelocityMotorJacobian) {
	s.angVMot = append(s.angVMot, j)
	s.push(RecordAngularVelocityMotor, bodyA, bodyB, len(s.angVMot)-1)
}

// Typed payload accessors. The header's tag is the single source of truth;
// asking for the wrong kind is a contract violation and panics.

func (s *Stream) LinearLimit(h *Header) *LinearLimitJacobian {
	mustBe(h, RecordLinearLimit)
	return &s.linear[h.slot]
}

func (s *Stream) AngularLimit1D(h *Header) *AngularLimit1DJacobian {
	mustBe(h, RecordAngularLimit1D)
	return &s.ang1[h.slot]
}

func (s *Stream) AngularLimit2D(h *Header) *AngularLimit2DJacobian {
	mustBe(h, RecordAngularLimit2D)
	return &s.ang2[h.slot]
}

func (s *Stream) AngularLimit3D(h *Header) *AngularLimit3DJacobian {
	mustBe(h, RecordAngularLimit3D)
	return &s.ang3[h.slot]
}

func (s *Stream) PositionMotor(h *Header) *PositionMotorJacobian {
	mustBe(h, RecordPositionMotor)
	return &s.posMot[h.slot]
}

func (s *Stream) LinearVelocityMotor(h *Header) *LinearVelocityMotorJacobian {
	mustBe(h, RecordLinearVelocityMotor)
	return &s.linVMot[h.slot]
}

func (s *Stream) RotationMotor(h *Header) *RotationMotorJacobian {
	mustBe(h, RecordRotationMotor)
	return &s.rotMot[h.slot]
}

func (s *Stream) AngularVelocityMotor(h *Header) *AngularVelocityMotorJacobian {
	mustBe(h, RecordAngularVelocityMotor)
	return &s.angVMot[h.slot]
}

func mustBe(h *Header, t RecordType) {
	if h.Type != t {
		panic("solver: record type mismatch: have " + h.Type.String() + ", want " + t.String())
	}
}

// Iterator walks a stream strictly forward. Callers must check HasNext
// before every Next; reading past the last record is a contract violation
// and panics.
type Iterator struct {
	s      *Stream
	cursor int
}

func (s *Stream) Iter() *Iterator { return &Iterator{s: s} }

func (it *Iterator) HasNext() bool { return it.cursor < len(it.s.headers) }

func (it *Iterator) Next() *Header {
	if !it.HasNext() {
		panic("solver: read past end of jacobian stream")
	}
	h := &it.s.headers[it.cursor]
	it.cursor++
	return h
}
