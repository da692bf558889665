package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"ianct-client/application/stores"
	"ianct-client/domain/models"
	"ianct-client/interfaces/api"
	"ianct-client/interfaces/router"
	apperrors "ianct-client/pkg/errors"

	"go.uber.org/zap"
)

// Workspace is the end-user shell.
type Workspace struct {
	*Shell
	session   *stores.SessionStore
	projects  *stores.ProjectStore
	texts     *stores.TextStore
	models    *api.ModelsAPI
	geo       *api.GeoAPI
	dash      *api.DashboardAPI
	exportDir string

	// located holds the last geo lookup for marker-add.
	located []models.GeoPoint
}

// WorkspaceDeps groups what the workspace shell drives.
type WorkspaceDeps struct {
	Session   *stores.SessionStore
	Projects  *stores.ProjectStore
	Texts     *stores.TextStore
	Models    *api.ModelsAPI
	Geo       *api.GeoAPI
	Dashboard *api.DashboardAPI
	Navigator *router.Navigator
	ExportDir string
}

func NewWorkspace(deps WorkspaceDeps, out io.Writer, logger *zap.Logger) *Workspace {
	s := &Workspace{
		Shell:     newShell("workspace", out, deps.Navigator, logger),
		session:   deps.Session,
		projects:  deps.Projects,
		texts:     deps.Texts,
		models:    deps.Models,
		geo:       deps.Geo,
		dash:      deps.Dashboard,
		exportDir: deps.ExportDir,
	}

	// account
	s.register("login", Command{Usage: "login <username> <password>", Help: "sign in", MinArgs: 2, Run: s.login})
	s.register("register", Command{Usage: "register <username> <email> <password>", Help: "create an account", MinArgs: 3, Run: s.registerAccount})
	s.register("logout", Command{Help: "sign out", Run: s.logout})
	s.register("whoami", Command{Help: "show the signed-in account", Run: s.whoami})
	s.register("email", Command{Usage: "email <address>", Help: "change your email", MinArgs: 1, Run: s.email})
	s.register("passwd", Command{Usage: "passwd <current> <new>", Help: "change your password", MinArgs: 2, Run: s.passwd})

	// projects
	s.register("projects", Command{Help: "list your projects", Run: s.listProjects})
	s.register("project", Command{Usage: "project <id>", Help: "open a project and scope texts to it", MinArgs: 1, Run: s.openProject})
	s.register("project-all", Command{Help: "show texts outside any project", Run: s.allTexts})
	s.register("project-new", Command{Usage: "project-new <name> [description]", Help: "create a project", MinArgs: 1, Run: s.newProject})
	s.register("project-rm", Command{Usage: "project-rm <id>", Help: "delete a project", MinArgs: 1, Run: s.deleteProject})
	s.register("member-add", Command{Usage: "member-add <projectId> <username>", Help: "add a member", MinArgs: 2, Run: s.member(true)})
	s.register("member-rm", Command{Usage: "member-rm <projectId> <username>", Help: "remove a member", MinArgs: 2, Run: s.member(false)})

	// texts
	s.register("dashboard", Command{Help: "load texts and open the first one", Run: s.dashboard})
	s.register("texts", Command{Usage: "texts [category]", Help: "list texts", Run: s.listTexts})
	s.register("tree", Command{Help: "show the navigation tree", Run: s.tree})
	s.register("open", Command{Usage: "open <textId>", Help: "open a text", MinArgs: 1, Run: s.open})
	s.register("show", Command{Help: "show the open text", Run: s.show})
	s.register("upload", Command{Usage: "upload <title> <content>", Help: "upload a text", MinArgs: 2, Run: s.upload})
	s.register("text-rm", Command{Usage: "text-rm <id>", Help: "delete a text", MinArgs: 1, Run: s.deleteText})
	s.register("text-edit", Command{Usage: "text-edit <title> [content]", Help: "retitle or rewrite the open text", MinArgs: 1, Run: s.editText})
	s.register("category", Command{Usage: "category <name>", Help: "set the open text's category", MinArgs: 1, Run: s.category})
	s.register("search", Command{Usage: "search <keyword>", Help: "search texts", MinArgs: 1, Run: s.search})
	s.register("export", Command{Usage: "export [json|xlsx]", Help: "export the open text", Run: s.export})

	// annotations
	s.register("entities", Command{Help: "list visible entities", Run: s.entities})
	s.register("relations", Command{Help: "list visible relations", Run: s.relations})
	s.register("entity-add", Command{Usage: "entity-add <label> <category> <start> <end>", Help: "annotate an entity", MinArgs: 4, Run: s.addEntity})
	s.register("entity-rm", Command{Usage: "entity-rm <id>", Help: "delete an entity and its relations", MinArgs: 1, Run: s.deleteEntity})
	s.register("relation-add", Command{Usage: "relation-add <sourceId> <targetId> <type> [evidence]", Help: "link two entities", MinArgs: 3, Run: s.addRelation})
	s.register("relation-rm", Command{Usage: "relation-rm <id>", Help: "delete a relation", MinArgs: 1, Run: s.deleteRelation})
	s.register("filter", Command{Usage: "filter entities|relations [values]", Help: "limit visible annotations", MinArgs: 1, Run: s.filter})
	s.register("highlight", Command{Help: "toggle highlight-only", Run: s.highlight})

	// analysis
	s.register("models", Command{Help: "list enabled models", Run: s.listModels})
	s.register("classify", Command{Usage: "classify [model]", Help: "classify the open text", Run: s.classify})
	s.register("analyze", Command{Usage: "analyze [model]", Help: "run the full analysis", Run: s.analyze})
	s.register("annotate", Command{Help: "auto-annotate the open text", Run: s.annotate})
	s.register("segment", Command{Help: "re-segment the open text", Run: s.segment})
	s.register("sections", Command{Help: "list sections", Run: s.sections})
	s.register("section-edit", Command{Usage: "section-edit <sectionId> <title> [summary]", Help: "rename a section", MinArgs: 2, Run: s.editSection})
	s.register("insights", Command{Usage: "insights [full]", Help: "show insights", Run: s.insights})
	s.register("overview", Command{Usage: "overview [textId]", Help: "show the dashboard overview", Run: s.overview})

	// map
	s.register("geo", Command{Usage: "geo [model]", Help: "locate the open text's places", Run: s.locate})
	s.register("markers", Command{Help: "list saved map markers", Run: s.markers})
	s.register("marker-add", Command{Usage: "marker-add <entityId|all> [lat lng]", Help: "save map markers", MinArgs: 1, Run: s.addMarker})
	s.register("marker-rm", Command{Usage: "marker-rm <entityId>", Help: "delete a map marker", MinArgs: 1, Run: s.deleteMarker})
	return s
}

func (s *Workspace) login(ctx context.Context, args []string) error {
	res := s.session.Login(ctx, models.LoginRequest{Username: args[0], Password: args[1]})
	if !res.Success {
		fmt.Fprintf(s.out, "Login failed: %s\n", res.Message)
		return nil
	}
	fmt.Fprintf(s.out, "Signed in as %s\n", args[0])
	return s.afterLogin(ctx, "/dashboard")
}

func (s *Workspace) registerAccount(ctx context.Context, args []string) error {
	res := s.session.Register(ctx, models.RegisterRequest{Username: args[0], Email: args[1], Password: args[2]})
	if !res.Success {
		fmt.Fprintf(s.out, "Registration failed: %s\n", res.Message)
		return nil
	}
	fmt.Fprintf(s.out, "Registered %s\n", args[0])
	return s.afterLogin(ctx, "/dashboard")
}

func (s *Workspace) logout(ctx context.Context, _ []string) error {
	s.session.Logout()
	s.projects.Reset()
	s.texts.Reset()
	fmt.Fprintln(s.out, "Signed out")
	_, err := s.visit(ctx, "/login")
	return err
}

func (s *Workspace) whoami(_ context.Context, _ []string) error {
	user := s.session.User()
	if user == nil {
		fmt.Fprintln(s.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(s.out, "%s <%s>\n", user.Username, user.Email)
	return nil
}

func (s *Workspace) email(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/profile"); !ok || err != nil {
		return err
	}
	fmt.Fprintln(s.out, s.session.UpdateEmail(ctx, args[0]).Message)
	return nil
}

func (s *Workspace) passwd(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/profile"); !ok || err != nil {
		return err
	}
	res := s.session.ChangePassword(ctx, models.UpdatePasswordRequest{CurrentPassword: args[0], NewPassword: args[1]})
	fmt.Fprintln(s.out, res.Message)
	return nil
}

func (s *Workspace) listProjects(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/projects"); !ok || err != nil {
		return err
	}
	projects, err := s.projects.FetchMyProjects(ctx)
	if err != nil {
		return err
	}
	return s.table("ID\tNAME\tOWNER\tMEMBERS", func(w io.Writer) {
		for _, p := range projects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.OwnerName, len(p.Members))
		}
	})
}

func (s *Workspace) openProject(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, fmt.Sprintf("/projects/%d/documents", id)); !ok || err != nil {
		return err
	}
	p, err := s.projects.SelectProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.texts.LoadTexts(ctx, "", stores.InProject(id)); err != nil {
		return err
	}
	if err := s.texts.LoadNavigationTree(ctx, stores.CurrentProject()); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Project %s\n", p.Name)
	return s.printTexts()
}

func (s *Workspace) allTexts(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/documents"); !ok || err != nil {
		return err
	}
	if err := s.texts.LoadTexts(ctx, "", stores.NoProject()); err != nil {
		return err
	}
	if err := s.texts.LoadNavigationTree(ctx, stores.CurrentProject()); err != nil {
		return err
	}
	return s.printTexts()
}

func (s *Workspace) newProject(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/projects"); !ok || err != nil {
		return err
	}
	req := models.ProjectCreateRequest{Name: args[0]}
	if len(args) > 1 {
		req.Description = strings.Join(args[1:], " ")
	}
	p, err := s.projects.CreateProject(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created project %d (%s)\n", p.ID, p.Name)
	return nil
}

func (s *Workspace) deleteProject(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, "/projects"); !ok || err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted project %d\n", id)
	return nil
}

func (s *Workspace) member(add bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if ok, err := s.enter(ctx, "/projects"); !ok || err != nil {
			return err
		}
		var p *models.Project
		if add {
			p, err = s.projects.AddMember(ctx, id, args[1])
		} else {
			p, err = s.projects.RemoveMember(ctx, id, args[1])
		}
		if err != nil {
			return err
		}
		names := make([]string, 0, len(p.Members))
		for _, m := range p.Members {
			names = append(names, m.Username)
		}
		fmt.Fprintf(s.out, "%s members: %s\n", p.Name, strings.Join(names, ", "))
		return nil
	}
}

func (s *Workspace) dashboard(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/dashboard"); !ok || err != nil {
		return err
	}
	if err := s.texts.InitDashboard(ctx); err != nil {
		return err
	}
	if err := s.printTexts(); err != nil {
		return err
	}
	return s.printSelection()
}

func (s *Workspace) listTexts(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/documents"); !ok || err != nil {
		return err
	}
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	if err := s.texts.LoadTexts(ctx, category, stores.CurrentProject()); err != nil {
		return err
	}
	return s.printTexts()
}

func (s *Workspace) printTexts() error {
	st := s.texts.Snapshot()
	return s.table("ID\tTITLE\tCATEGORY", func(w io.Writer) {
		for _, t := range st.Texts {
			marker := ""
			if t.ID == st.SelectedTextID {
				marker = " *"
			}
			fmt.Fprintf(w, "%d%s\t%s\t%s\n", t.ID, marker, t.Title, t.Category)
		}
	})
}

func (s *Workspace) tree(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/documents"); !ok || err != nil {
		return err
	}
	if err := s.texts.LoadNavigationTree(ctx, stores.CurrentProject()); err != nil {
		return err
	}
	var walk func(nodes []models.NavigationNode, depth int)
	walk = func(nodes []models.NavigationNode, depth int) {
		for _, n := range nodes {
			label := n.Label
			if n.TextID != nil {
				label = fmt.Sprintf("%s [%d]", n.Label, *n.TextID)
			}
			fmt.Fprintf(s.out, "%s%s\n", strings.Repeat("  ", depth), label)
			walk(n.Children, depth+1)
		}
	}
	walk(s.texts.Snapshot().NavigationTree, 0)
	return nil
}

func (s *Workspace) open(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, fmt.Sprintf("/texts/%d", id)); !ok || err != nil {
		return err
	}
	if err := s.texts.SelectText(ctx, id); err != nil {
		return err
	}
	return s.printSelection()
}

func (s *Workspace) printSelection() error {
	st := s.texts.Snapshot()
	if st.SelectedText == nil {
		fmt.Fprintln(s.out, "No text selected")
		return nil
	}
	t := st.SelectedText
	fmt.Fprintf(s.out, "[%d] %s (%s)\n", t.ID, t.Title, t.Category)
	fmt.Fprintf(s.out, "%d entities, %d relations, %d sections\n",
		len(st.Entities), len(st.Relations), len(st.Sections))

	slices := make([]string, 0, len(st.SliceErrors))
	for name := range st.SliceErrors {
		slices = append(slices, name)
	}
	sort.Strings(slices)
	for _, name := range slices {
		fmt.Fprintf(s.out, "warning: %s unavailable: %s\n", name, describe(st.SliceErrors[name]))
	}
	return nil
}

func (s *Workspace) show(_ context.Context, _ []string) error {
	t := s.texts.Snapshot().SelectedText
	if t == nil {
		return errNoSelection
	}
	fmt.Fprintf(s.out, "%s\n\n%s\n", t.Title, t.Content)
	return nil
}

func (s *Workspace) upload(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/documents"); !ok || err != nil {
		return err
	}
	t, err := s.texts.UploadNewText(ctx, models.TextUploadRequest{
		Title:   args[0],
		Content: strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Uploaded text %d\n", t.ID)
	return nil
}

func (s *Workspace) deleteText(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, "/documents"); !ok || err != nil {
		return err
	}
	if err := s.texts.DeleteText(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted text %d\n", id)
	return nil
}

func (s *Workspace) category(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if err := s.texts.UpdateSelectedCategory(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Category set to %s\n", args[0])
	return nil
}

// editText keeps the fields it is not given.
func (s *Workspace) editText(ctx context.Context, args []string) error {
	t := s.texts.Snapshot().SelectedText
	if t == nil {
		return errNoSelection
	}
	req := models.TextUploadRequest{
		Title:       args[0],
		Content:     t.Content,
		Description: t.Description,
		Category:    t.Category,
		Author:      t.Author,
		Era:         t.Era,
		ProjectID:   t.ProjectID,
	}
	if len(args) > 1 {
		req.Content = strings.Join(args[1:], " ")
	}
	updated, err := s.texts.UpdateText(ctx, t.ID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated text %d (%s)\n", updated.ID, updated.Title)
	return nil
}

func (s *Workspace) search(ctx context.Context, args []string) error {
	if err := s.texts.PerformSearch(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	return s.table("TEXT\tTITLE\tSCORE\tSNIPPET", func(w io.Writer) {
		for _, r := range s.texts.Snapshot().SearchResults {
			fmt.Fprintf(w, "%d\t%s\t%.0f\t%s\n", r.TextID, r.Title, r.Score, r.Snippet)
		}
	})
}

func (s *Workspace) export(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	format := "json"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	var (
		path string
		err  error
	)
	switch format {
	case "json":
		path, err = s.texts.ExportSelectedText(ctx, s.exportDir)
	case "xlsx":
		path, err = s.texts.ExportSelectedWorkbook(ctx, s.exportDir)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported to %s\n", path)
	return nil
}

func (s *Workspace) entities(_ context.Context, _ []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	entities, _ := s.texts.VisibleAnnotations()
	return printEntities(s.Shell, entities)
}

func (s *Workspace) relations(_ context.Context, _ []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	_, relations := s.texts.VisibleAnnotations()
	return printRelations(s.Shell, relations)
}

func (s *Workspace) addEntity(ctx context.Context, args []string) error {
	id, err := s.selection()
	if err != nil {
		return err
	}
	start, err1 := strconv.Atoi(args[2])
	end, err2 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil {
		return apperrors.NewValidationError("start and end must be numbers")
	}
	e, err := s.texts.CreateEntityAnnotation(ctx, models.EntityCreateRequest{
		TextID:      id,
		Label:       args[0],
		Category:    args[1],
		StartOffset: start,
		EndOffset:   end,
		Confidence:  1,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Entity %d added\n", e.ID)
	return nil
}

func (s *Workspace) deleteEntity(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.texts.DeleteEntityAnnotation(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Entity %d deleted\n", id)
	return nil
}

func (s *Workspace) addRelation(ctx context.Context, args []string) error {
	textID, err := s.selection()
	if err != nil {
		return err
	}
	source, err := parseID(args[0])
	if err != nil {
		return err
	}
	target, err := parseID(args[1])
	if err != nil {
		return err
	}
	r, err := s.texts.CreateRelationAnnotation(ctx, models.RelationCreateRequest{
		TextID:         textID,
		SourceEntityID: source,
		TargetEntityID: target,
		RelationType:   args[2],
		Confidence:     1,
		Evidence:       strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Relation %d added\n", r.ID)
	return nil
}

func (s *Workspace) deleteRelation(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.texts.DeleteRelationAnnotation(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Relation %d deleted\n", id)
	return nil
}

// filter with no values selects every option again.
func (s *Workspace) filter(_ context.Context, args []string) error {
	switch args[0] {
	case "entities":
		values := args[1:]
		if len(values) == 0 {
			values = s.texts.EntityOptions()
		}
		s.texts.SetEntityFilters(values)
	case "relations":
		values := args[1:]
		if len(values) == 0 {
			values = s.texts.RelationOptions()
		}
		s.texts.SetRelationFilters(values)
	default:
		return apperrors.NewValidationError("filter entities|relations [values]")
	}
	f := s.texts.Snapshot().Filters
	fmt.Fprintf(s.out, "entities: %s\nrelations: %s\n",
		strings.Join(f.EntityCategories, ","), strings.Join(f.RelationTypes, ","))
	return nil
}

func (s *Workspace) highlight(_ context.Context, _ []string) error {
	s.texts.ToggleHighlightOnly()
	fmt.Fprintf(s.out, "highlight only: %t\n", s.texts.Snapshot().Filters.HighlightOnly)
	return nil
}

func (s *Workspace) listModels(ctx context.Context, _ []string) error {
	list, err := s.models.Enabled(ctx)
	if err != nil {
		return err
	}
	return s.table("KEY\tNAME\tPROVIDER", func(w io.Writer) {
		for _, m := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.ModelKey, m.DisplayName, m.Provider)
		}
	})
}

func (s *Workspace) classify(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	c, err := s.texts.ClassifySelectedText(ctx, optional(args))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%.2f)\n", c.SuggestedCategory, c.Confidence)
	for _, r := range c.Reasons {
		fmt.Fprintf(s.out, "  - %s\n", r)
	}
	return nil
}

func (s *Workspace) analyze(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if _, err := s.texts.RunFullAnalysis(ctx, optional(args)); err != nil {
		return err
	}
	return s.printSelection()
}

func (s *Workspace) annotate(ctx context.Context, _ []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if err := s.texts.TriggerAutoAnnotation(ctx); err != nil {
		return err
	}
	return s.printSelection()
}

func (s *Workspace) segment(ctx context.Context, _ []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if err := s.texts.AutoSegmentSections(ctx); err != nil {
		return err
	}
	return s.sections(ctx, nil)
}

func (s *Workspace) sections(_ context.Context, _ []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	return s.table("ID\tTITLE\tSPAN", func(w io.Writer) {
		for _, sec := range s.texts.Snapshot().Sections {
			fmt.Fprintf(w, "%d\t%s\t%d-%d\n", sec.ID, sec.Title, sec.StartOffset, sec.EndOffset)
		}
	})
}

func (s *Workspace) editSection(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	req := models.SectionUpdateRequest{Title: args[1]}
	if len(args) > 2 {
		req.Summary = strings.Join(args[2:], " ")
	}
	sec, err := s.texts.UpdateSection(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Section %d: %s\n", sec.ID, sec.Title)
	return nil
}

func (s *Workspace) insights(ctx context.Context, args []string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	light := !(len(args) > 0 && args[0] == "full")
	if err := s.texts.LoadInsights(ctx, 0, light); err != nil {
		return err
	}
	in := s.texts.Snapshot().Insights
	if in == nil {
		fmt.Fprintln(s.out, "No insights")
		return nil
	}
	if in.Stats != nil {
		fmt.Fprintf(s.out, "entities %d  relations %d  punctuation %.0f%%\n",
			in.Stats.EntityCount, in.Stats.RelationCount, in.Stats.PunctuationProgress*100)
	}
	words := make([]string, 0, len(in.WordCloud))
	for _, w := range in.WordCloud {
		words = append(words, w.Label)
	}
	if len(words) > 0 {
		fmt.Fprintf(s.out, "words: %s\n", strings.Join(words, " "))
	}
	if !light {
		fmt.Fprintf(s.out, "timeline %d  map points %d  battles %d\n",
			len(in.Timeline), len(in.MapPoints), len(in.BattleTimeline))
	}
	return nil
}

var errNoSelection = apperrors.NewValidationError("no text open; use 'open <id>'")

func (s *Workspace) requireSelection() error {
	_, err := s.selection()
	return err
}

func (s *Workspace) selection() (int64, error) {
	id := s.texts.Snapshot().SelectedTextID
	if id == 0 {
		return 0, errNoSelection
	}
	return id, nil
}

func optional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
