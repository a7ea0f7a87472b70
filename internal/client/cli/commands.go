package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

type command struct {
	name    string
	usage   string
	summary string
	// screens lists where the command is offered; nil means everywhere
	// after sign-in.
	screens []models.Screen
	run     func(a *App, ctx context.Context, args []string) error
}

var (
	hubScreens  = []models.Screen{models.ScreenHome, models.ScreenLibrary, models.ScreenSettings, models.ScreenInspiration, models.ScreenResult, models.ScreenScan, models.ScreenConfirmation, models.ScreenStyleSelection, models.ScreenStepFocus, models.ScreenFocusTimer, models.ScreenCompletion, models.ScreenSaveSpace}
	saveScreens = []models.Screen{models.ScreenResult, models.ScreenStepFocus, models.ScreenCompletion, models.ScreenSaveSpace}
)

var commands = []command{
	{name: "signin", summary: "sign in", screens: []models.Screen{models.ScreenAuth}, run: (*App).signIn},
	{name: "signup", summary: "create an account", screens: []models.Screen{models.ScreenAuth}, run: (*App).signUp},
	{name: "next", summary: "next page or step", screens: []models.Screen{models.ScreenOnboarding, models.ScreenStepFocus}, run: (*App).next},
	{name: "skip", summary: "skip the introduction", screens: []models.Screen{models.ScreenOnboarding}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.SkipOnboarding()
	}},
	{name: "scan", summary: "open the camera", screens: []models.Screen{models.ScreenHome}, run: func(a *App, ctx context.Context, _ []string) error {
		return a.m.StartScan(ctx)
	}},
	{name: "shutter", summary: "capture the current frame", screens: []models.Screen{models.ScreenScan}, run: func(a *App, ctx context.Context, _ []string) error {
		return a.m.Shutter(ctx)
	}},
	{name: "retake", summary: "discard the photo and scan again", screens: []models.Screen{models.ScreenConfirmation}, run: func(a *App, ctx context.Context, _ []string) error {
		return a.m.Retake(ctx)
	}},
	{name: "use", summary: "use this photo", screens: []models.Screen{models.ScreenConfirmation}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.ConfirmCapture()
	}},
	{name: "style", usage: "[name]", summary: "reimagine the photo in a style", screens: []models.Screen{models.ScreenStyleSelection}, run: (*App).pickStyle},
	{name: "inspire", summary: "imagine a space from a description", screens: []models.Screen{models.ScreenHome}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.OpenInspiration()
	}},
	{name: "imagine", usage: "<description>", summary: "generate a dream space", screens: []models.Screen{models.ScreenInspiration}, run: (*App).imagine},
	{name: "toggle", summary: "switch between before and after", screens: []models.Screen{models.ScreenResult}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.ToggleView()
	}},
	{name: "steps", summary: "start organizing", screens: []models.Screen{models.ScreenResult}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.StartOrganizing()
	}},
	{name: "prev", summary: "previous step", screens: []models.Screen{models.ScreenStepFocus}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.PrevStep()
	}},
	{name: "focus", summary: "start the focus timer", screens: []models.Screen{models.ScreenStepFocus}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.StartFocus()
	}},
	{name: "done", summary: "stop the focus timer", screens: []models.Screen{models.ScreenFocusTimer}, run: func(a *App, _ context.Context, _ []string) error {
		return a.m.EndFocus()
	}},
	{name: "save", usage: "[name]", summary: "save this space", screens: saveScreens, run: (*App).save},
	{name: "quicksave", summary: "save with a default name", screens: []models.Screen{models.ScreenResult, models.ScreenStepFocus, models.ScreenCompletion}, run: func(a *App, ctx context.Context, _ []string) error {
		return a.m.QuickSave(ctx)
	}},
	{name: "export", usage: "[path]", summary: "write the shown image to a file", screens: []models.Screen{models.ScreenResult, models.ScreenConfirmation}, run: (*App).export},
	{name: "open", usage: "<id>", summary: "open a saved space", screens: []models.Screen{models.ScreenLibrary}, run: (*App).open},
	{name: "rename", usage: "<id> <name>", summary: "rename a saved space", screens: []models.Screen{models.ScreenLibrary}, run: (*App).rename},
	{name: "note", usage: "<id> [text]", summary: "edit the note of a saved space", screens: []models.Screen{models.ScreenLibrary}, run: (*App).note},
	{name: "delete", usage: "<id>", summary: "delete a saved space", screens: []models.Screen{models.ScreenLibrary}, run: (*App).deleteSpace},
	{name: "set", usage: "<focus|style|animations|haptics|text|contrast> <value>", summary: "change a setting", screens: []models.Screen{models.ScreenSettings}, run: (*App).set},
	{name: "signout", summary: "sign out", screens: []models.Screen{models.ScreenSettings}, run: func(a *App, ctx context.Context, _ []string) error {
		return a.m.SignOut(ctx)
	}},
	{name: "delete-account", summary: "delete the account and all spaces", screens: []models.Screen{models.ScreenSettings}, run: (*App).deleteAccount},
	{name: "go", usage: "<home|library|settings|inspiration|result>", summary: "jump to a screen", screens: hubScreens, run: (*App).goTo},
	{name: "show", summary: "show the current screen", run: func(*App, context.Context, []string) error { return nil }},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (c command) offeredOn(screen models.Screen) bool {
	return c.screens == nil || slices.Contains(c.screens, screen)
}

// help lists the commands offered on the current screen.
func (a *App) help() []string {
	screen := a.m.State().Screen
	var out []string
	for _, c := range commands {
		if !c.offeredOn(screen) {
			continue
		}
		line := c.name
		if c.usage != "" {
			line += " " + c.usage
		}
		out = append(out, fmt.Sprintf("  %-28s %s", line, c.summary))
	}
	return append(out, fmt.Sprintf("  %-28s %s", "exit", "leave Ordo"))
}

// exec runs one command and renders the screen it leads to. Errors already
// shown as a notice are not returned again.
func (a *App) exec(ctx context.Context, name string, args []string) error {
	c, ok := findCommand(name)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	if !c.offeredOn(a.m.State().Screen) {
		return fmt.Errorf("%s is not available here, type help", name)
	}

	err := c.run(a, ctx, args)
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: %s %s", c.name, c.usage)
	}

	st := a.m.State()
	a.render(st)
	if err != nil && st.Notice == nil {
		return err
	}
	return nil
}

func (a *App) signIn(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.m.SignIn(ctx, email, string(password))
}

func (a *App) signUp(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.m.SignUp(ctx, email, name, string(password))
}

func (a *App) next(_ context.Context, _ []string) error {
	if a.m.State().Screen == models.ScreenOnboarding {
		return a.m.AdvanceOnboarding()
	}
	return a.m.NextStep()
}

// pickStyle uses the user's default style when no name is given.
func (a *App) pickStyle(ctx context.Context, args []string) error {
	var style models.OrganizingStyle
	if len(args) == 0 {
		st := a.m.State()
		if st.Session == nil {
			return errUsage
		}
		style = st.Session.Settings.DefaultStyle
	} else {
		s, err := models.ParseStyle(strings.Join(args, " "))
		if err != nil {
			return err
		}
		style = s
	}

	fmt.Fprintf(a.out, "Reimagining your space as %s...\n", style)
	return a.m.PickStyle(ctx, style)
}

func (a *App) imagine(ctx context.Context, args []string) error {
	prompt := strings.Join(args, " ")
	if prompt == "" {
		var err error
		if prompt, err = getSimpleText(a.reader, "Describe your dream space", a.out); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, "Imagining...")
	return a.m.Imagine(ctx, prompt)
}

func (a *App) save(ctx context.Context, args []string) error {
	if a.m.State().Screen != models.ScreenSaveSpace {
		if err := a.m.RequestSave(); err != nil {
			return err
		}
	}
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Name this space", a.out); err != nil {
			return err
		}
	}
	return a.m.ConfirmSave(ctx, name)
}

func (a *App) open(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return a.m.OpenSpace(args[0])
}

func (a *App) rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	return a.m.RenameSpace(ctx, args[0], strings.Join(args[1:], " "))
}

func (a *App) note(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	text := strings.Join(args[1:], " ")
	if text == "" {
		var err error
		if text, err = getMultiline(a.reader, "Enter the note", a.out); err != nil {
			return err
		}
	}
	return a.m.EditNote(ctx, args[0], text)
}

func (a *App) deleteSpace(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return a.m.DeleteSpace(ctx, args[0])
}

func (a *App) deleteAccount(ctx context.Context, _ []string) error {
	answer, err := getSimpleText(a.reader, "This removes your account and every saved space. Type yes to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return a.m.DeleteAccount(ctx)
}

func (a *App) goTo(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return a.m.Navigate(models.Screen(strings.ToLower(args[0])))
}

// set parses "set <key> <value>" into a settings patch.
func (a *App) set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	value := strings.Join(args[1:], " ")

	var patch models.SettingsPatch
	switch strings.ToLower(args[0]) {
	case "focus":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errUsage
		}
		patch.DefaultFocusMinutes = &n
	case "style":
		s, err := models.ParseStyle(value)
		if err != nil {
			return err
		}
		patch.DefaultStyle = &s
	case "animations":
		b, err := parseSwitch(value)
		if err != nil {
			return err
		}
		patch.GentleAnimations = &b
	case "haptics":
		b, err := parseSwitch(value)
		if err != nil {
			return err
		}
		patch.HapticFeedback = &b
	case "text":
		b, err := parseSwitch(value)
		if err != nil {
			return err
		}
		patch.LargerText = &b
	case "contrast":
		b, err := parseSwitch(value)
		if err != nil {
			return err
		}
		patch.HighContrast = &b
	default:
		return errUsage
	}
	return a.m.UpdateSettings(ctx, patch)
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}
