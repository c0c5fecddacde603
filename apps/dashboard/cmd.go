package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/client"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/dashboard"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out io.Writer
}

type options struct {
	url        string
	username   string
	classID    int
	search     string
	category   string
	alertsOnly bool
	chart      string
}

func (cli *commandLine) printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(cli.out, "Usage: dashboard -url URL -username USERNAME [flags] COMMAND")
	fmt.Fprintln(cli.out, "Commands:")
	fmt.Fprintln(cli.out, "  show                               - print the dashboard")
	fmt.Fprintln(cli.out, "  add-student SID                    - add a student to the class given by -class")
	fmt.Fprintln(cli.out, "  remove-student SID                 - remove a student from the class given by -class")
	fmt.Fprintln(cli.out, "  edit-student SID NAME [CPF] [PCID] - update a student")
	fmt.Fprintln(cli.out, "Flags:")
	fs.PrintDefaults()
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	var opts options
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	fs.StringVar(&opts.url, "url", "http://localhost:8080", "The server's base URL.")
	fs.StringVar(&opts.username, "username", "", "The professor's username. The password will be prompted next.")
	fs.IntVar(&opts.classID, "class", 0, "The ID of the class to select.")
	fs.StringVar(&opts.search, "search", "", "Filter logs by student name, CPF or PC ID.")
	fs.StringVar(&opts.category, "category", "", "Filter logs by category.")
	fs.BoolVar(&opts.alertsOnly, "alerts", false, "Show alert logs only.")
	fs.StringVar(&opts.chart, "chart", string(dashboard.ChartBar), "The chart type: bar, pie or doughnut.")
	fs.Usage = func() { cli.printUsage(fs) }

	if len(args) < 2 {
		fs.Usage()
		return errHelp
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	cmd := fs.Args()
	if opts.username == "" || len(cmd) == 0 {
		fs.Usage()
		return errHelp
	}
	chart, err := dashboard.ParseChartType(opts.chart)
	if err != nil {
		return err
	}

	// validate the command before prompting for anything
	var action func(ctx context.Context, store *dashboard.Store) error
	switch cmd[0] {
	case "show":
		action = func(context.Context, *dashboard.Store) error { return nil }

	case "add-student", "remove-student":
		if len(cmd) != 2 || opts.classID == 0 {
			fs.Usage()
			return errHelp
		}
		studentID, err := strconv.Atoi(cmd[1])
		if err != nil {
			return fmt.Errorf("invalid student ID %q", cmd[1])
		}
		action = func(ctx context.Context, store *dashboard.Store) error {
			if cmd[0] == "add-student" {
				return store.AddStudent(ctx, studentID)
			}
			return store.RemoveStudent(ctx, studentID)
		}

	case "edit-student":
		if len(cmd) < 3 || len(cmd) > 5 {
			fs.Usage()
			return errHelp
		}
		studentID, err := strconv.Atoi(cmd[1])
		if err != nil {
			return fmt.Errorf("invalid student ID %q", cmd[1])
		}
		in := classroom.StudentInput{FullName: cmd[2]}
		if len(cmd) > 3 {
			in.CPF = cmd[3]
		}
		if len(cmd) > 4 {
			in.PCID = cmd[4]
		}
		action = func(ctx context.Context, store *dashboard.Store) error {
			if err := store.EditStudent(studentID); err != nil {
				return err
			}
			return store.SaveStudent(ctx, in)
		}

	default:
		fs.Usage()
		return errHelp
	}

	api, err := client.New(opts.url, nil)
	if err != nil {
		return err
	}
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if err := api.Login(ctx, opts.username, pwd); err != nil {
		return err
	}
	defer api.Logout(ctx)

	store := dashboard.NewStore(api, nil)
	if err := store.Init(ctx); err != nil {
		return err
	}
	if opts.classID != 0 {
		if err := store.SelectClass(ctx, &opts.classID); err != nil {
			return err
		}
	}
	if err := store.SetChartType(chart); err != nil {
		return err
	}
	if opts.search != "" || opts.category != "" || opts.alertsOnly {
		if err := store.SetFilter(ctx, opts.search, opts.category, opts.alertsOnly); err != nil {
			return err
		}
	}
	if err := action(ctx, store); err != nil {
		return err
	}
	return cli.print(store.Views())
}

func (cli *commandLine) print(v dashboard.Views) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "== Alunos ==")
	if v.AllStudents.Empty != "" {
		fmt.Fprintln(w, v.AllStudents.Empty)
	} else {
		fmt.Fprintln(w, "ID\tNOME\tNA TURMA")
		for _, s := range v.AllStudents.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, yesNo(s.Disabled))
		}
	}

	if v.Roster.Visible {
		fmt.Fprintf(w, "\n== Turma: %s ==\n", v.Roster.ClassName)
		if v.Roster.Empty != "" {
			fmt.Fprintln(w, v.Roster.Empty)
		}
		for _, s := range v.Roster.Items {
			fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Name)
		}
	}

	fmt.Fprintln(w, "\n== Resumo ==")
	if v.Summary.Empty != "" {
		fmt.Fprintln(w, v.Summary.Empty)
	} else {
		fmt.Fprintln(w, "\tALUNO\tID\tMINUTOS\tLOGS\tÚLTIMA ATIVIDADE")
		for _, r := range v.Summary.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Status, r.Name, r.AlunoID, r.Minutes, r.LogCount, r.LastActivity)
		}
	}

	fmt.Fprintf(w, "\n== Logs (%d) ==\n", v.Logs.Count)
	if v.Logs.Empty != "" {
		fmt.Fprintln(w, v.Logs.Empty)
	} else {
		fmt.Fprintln(w, "ALUNO\tURL\tDURAÇÃO\tCATEGORIA\tDATA\t")
		for _, r := range v.Logs.Rows {
			mark := ""
			if r.Alert {
				mark = "⚠️"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Student, r.URL, r.Duration, r.Category, r.Timestamp, mark)
		}
	}

	fmt.Fprintf(w, "\n== %s (%s) ==\n", v.Chart.DatasetLabel, v.Chart.Type)
	for i, label := range v.Chart.Labels {
		if v.Chart.Placeholder {
			fmt.Fprintln(w, label)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\n", label, v.Chart.Data[i])
	}

	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}
