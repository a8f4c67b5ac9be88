package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/tryfi/model"
)

// DefaultCacheSize is the number of compiled expressions kept by NewExprCompiler
const DefaultCacheSize = 100

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	funcs      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache sets the size of the compiled expression cache; 0 disables it
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: helperFunctions(),
		cache:       newLRUCache[CompiledFilter](DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // pet fields are bound at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		funcs:      c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate reports whether the pet matches; a runtime error counts as no match
func (f *exprFilter) Evaluate(pet *model.Pet) bool {
	ok, err := f.Match(pet)
	return err == nil && ok
}

// Match runs the program against the pet
func (f *exprFilter) Match(pet *model.Pet) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnvironment(pet, f.funcs))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, PetID: pet.PetID, Err: err}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func helperFunctions() map[string]any {
	funcs := make(map[string]any, 8)
	funcs["hoursSince"] = func(t time.Time) float64 {
		return time.Since(t).Hours()
	}
	funcs["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper
	funcs["now"] = time.Now
	return funcs
}

// runtimeEnvironment binds the pet fields exposed to expressions next to the
// compiler's functions. Sleep and nap durations are in minutes.
func runtimeEnvironment(pet *model.Pet, funcs map[string]any) map[string]any {
	env := make(map[string]any, len(funcs)+16)
	maps.Copy(env, funcs)

	env["Pet"] = pet
	env["Name"] = pet.Name
	env["Breed"] = pet.Breed
	env["Battery"] = pet.BatteryPercent()
	env["Charging"] = pet.IsCharging()
	env["HasDevice"] = pet.HasDevice()

	online := false
	if pet.Device != nil {
		online = strings.HasPrefix(pet.Device.ConnectionState, "ConnectedTo")
	}
	env["Online"] = online

	var area string
	var resting bool
	if loc := pet.CurrentLocation; loc != nil {
		area = loc.AreaName
		if loc.PlaceName != "" {
			area = loc.PlaceName
		}
		resting = loc.IsResting()
	}
	env["Area"] = area
	env["Resting"] = resting

	env["DailySteps"] = pet.ActivityStats.Daily.Steps
	env["WeeklySteps"] = pet.ActivityStats.Weekly.Steps
	env["MonthlySteps"] = pet.ActivityStats.Monthly.Steps
	env["StepGoal"] = pet.ActivityStats.Daily.StepGoal
	env["DailySleep"] = pet.RestStats.Daily.Sleep.Minutes()
	env["DailyNap"] = pet.RestStats.Daily.Nap.Minutes()
	env["LastUpdated"] = pet.LastUpdated

	return env
}
