// Package physics holds the closed-form RC equations shared by every
// behavior model.
//
// The charging curve is V0(1 - e^(-t/RC)) up to the midpoint tm of the time
// grid; after it the curve restarts at V0 and decays as V0 e^(-(t-tm)/RC).
// Capacitance drifts linearly with temperature around 25 °C:
//
//	C(T) = C0 (1 + tc (T - 25))
//
// Energy accounting covers a charging window of 3RC: resistive and leakage
// losses over that window plus fixed dielectric, plate and self-discharge
// fractions of the stored energy.
package physics
