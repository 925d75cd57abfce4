package gpio_test

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
	"testing"
)

// Illegal pin/function pairings must be rejected by the compiler. The
// snippets are type-checked against this package's source.
func TestIllegalPairingsDoNotCompile(t *testing.T) {
	if testing.Short() {
		t.Skip("type-checks the module from source")
	}
	fset := token.NewFileSet()
	imp := importer.ForCompiler(fset, "source", nil)

	check := func(body string) error {
		src := "package snippet\n\nimport \"fr2x5x-go/gpio\"\n\nfunc f(ports gpio.Port1, p2 gpio.Port2, p6 gpio.Port6) {\n" + body + "\n}\n"
		name, _ := filepath.Abs("snippet.go")
		f, err := parser.ParseFile(fset, name, src, 0)
		if err != nil {
			t.Fatal(err)
		}
		conf := types.Config{Importer: imp}
		_, err = conf.Check("snippet", fset, []*ast.File{f}, nil)
		return err
	}

	if err := check("_ = ports\n_ = p2\n_ = p6"); err != nil {
		t.Fatalf("baseline does not type-check: %v", err)
	}

	legal := []string{
		"_ = gpio.IntoAlt1[gpio.Output](ports.P5)",
		"_ = gpio.IntoAnalog(ports.P3)",
		"_ = gpio.IntoAlt3[gpio.Input](p2.P4)",
		"gpio.High(gpio.IntoOutput(p6.P6))",
		"gpio.EnableInterrupt(gpio.IntoInput(p2.P0))",
		"_ = gpio.IntoOutput(gpio.Release(gpio.IntoAlt1[gpio.Input](ports.P0)))",
	}
	for _, s := range legal {
		if err := check(s); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}

	illegal := map[string]string{
		"no alt3 on P2.0":            "_ = gpio.IntoAlt3[gpio.Output](p2.P0)",
		"no analog on P2.0":          "_ = gpio.IntoAnalog(p2.P0)",
		"no alt2 on P6.0":            "_ = gpio.IntoAlt2[gpio.Output](p6.P0)",
		"no interrupts on port 6":    "gpio.EnableInterrupt(gpio.IntoInput(p6.P1))",
		"alt to alt without release": "_ = gpio.IntoAlt2[gpio.Output](gpio.IntoAlt1[gpio.Output](ports.P0))",
		"analog to output":           "_ = gpio.IntoOutput(gpio.IntoAnalog(ports.P1))",
		"drive an input":             "gpio.High(gpio.IntoInput(ports.P2))",
		"pull on an output":          "gpio.SetPull(gpio.IntoOutput(ports.P2), gpio.PullUp)",
		"bad direction":              "_ = gpio.IntoAlt1[gpio.Analog](ports.P5)",
		"channel of a digital pin":   "_ = gpio.AnalogChannel(gpio.IntoInput(ports.P4))",
	}
	for name, s := range illegal {
		err := check(s)
		if err == nil {
			t.Errorf("%s: %q type-checked", name, s)
			continue
		}
		if strings.Contains(err.Error(), "could not import") {
			t.Fatalf("importer failed: %v", err)
		}
	}
}
