package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/filter/design"
)

func ExampleDesign() {
	c := design.Design(design.ModePeak, 1000, 1, 6, 48000)

	fmt.Printf("%s: %.2f dB at 1 kHz\n", design.ModePeak, c.MagnitudeDB(1000, 48000))
	// Output:
	// Peak: 6.00 dB at 1 kHz
}
