// Package capacitor defines the values shared by every behavior model:
// the physical description of a capacitor and the parameters of one RC
// charge/discharge request.
//
//   - [Profile]: immutable capacitor description (capacitance, ESR, leakage,
//     temperature coefficient)
//   - [CircuitParameters]: resistance, source voltage, temperature and time grid
//     for a single simulation request
//   - [ParameterError], [BackendError]: the error taxonomy
//
// # Example
//
//	p, err := capacitor.NewProfile("Electrolytic", 100e-6, 0.1, 1e-6, -0.0005)
//	params := capacitor.CircuitParameters{
//	    Resistance:    100,
//	    SourceVoltage: 10,
//	    Temperature:   25,
//	    TimeGrid:      capacitor.LinearGrid(2.0, 200),
//	}
//	if err := params.Validate(); err != nil { ... }
//
// Profiles are values; copying one is safe and they are never mutated after
// construction.
package capacitor
