package mockapi

import (
	"strings"
	"time"
	"unicode/utf8"

	"ianct-client/domain/models"

	"golang.org/x/crypto/bcrypt"
)

// Seeded accounts.
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
	UserUsername  = "reader"
	UserPassword  = "reader123"
)

const sampleBiography = "项羽者，下相人也，字羽。初起时，年二十四。其季父项梁，梁父即楚将项燕。\n" +
	"沛公军霸上，未得与项羽相见。项羽遂入，至于戏西。\n" +
	"项王军壁垓下，兵少食尽，汉军及诸侯兵围之数重。"

const sampleTravelogue = "褒禅山亦谓之华山。唐浮图慧褒始舍于其址，而卒葬之。\n" +
	"距其院东五里，所谓华山洞者，以其在华山之阳名之也。"

// lexicon drives auto-annotation.
var lexicon = []struct {
	label    string
	category string
}{
	{"项羽", "PERSON"},
	{"项梁", "PERSON"},
	{"项燕", "PERSON"},
	{"沛公", "PERSON"},
	{"慧褒", "PERSON"},
	{"下相", "LOCATION"},
	{"霸上", "LOCATION"},
	{"戏西", "LOCATION"},
	{"垓下", "LOCATION"},
	{"褒禅山", "LOCATION"},
	{"华山洞", "LOCATION"},
}

type coordinate struct {
	lat, lon float64
}

// gazetteer resolves place names for geocoding.
var gazetteer = map[string]coordinate{
	"下相":  {33.95, 118.30},
	"霸上":  {34.27, 109.10},
	"戏西":  {34.38, 109.26},
	"垓下":  {33.30, 117.60},
	"褒禅山": {31.73, 118.02},
	"华山洞": {31.74, 118.03},
}

func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Server) addUser(username, email, password, role string) *user {
	now := s.now()
	on := true
	u := &user{
		profile: models.UserProfile{
			ID:         s.nextID(),
			Username:   username,
			Email:      email,
			Role:       role,
			Enabled:    &on,
			CreateTime: &now,
		},
		password: hashPassword(password),
	}
	s.users[u.profile.ID] = u
	return u
}

func (s *Server) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addUser(AdminUsername, "admin@example.com", AdminPassword, RoleAdmin)
	reader := s.addUser(UserUsername, "reader@example.com", UserPassword, RoleUser)

	for i, m := range []models.ModelConfig{
		{ModelKey: "deepseek-chat", DisplayName: "DeepSeek Chat", Provider: "deepseek", Enabled: true},
		{ModelKey: "qwen-plus", DisplayName: "Qwen Plus", Provider: "aliyun", Enabled: true},
		{ModelKey: "gpt-4o", DisplayName: "GPT-4o", Provider: "openai", Enabled: false},
	} {
		m.ID = s.nextID()
		m.SortOrder = i + 1
		cfg := m
		s.modelCfgs[cfg.ID] = &cfg
	}

	project := s.newProject(reader, "史记研读", "classical reading group")

	bio := s.newText(models.TextUploadRequest{
		Title:    "项羽本纪（节选）",
		Content:  sampleBiography,
		Category: "warfare",
		Author:   "司马迁",
		Era:      "西汉",
	})
	xiang := s.newEntity(bio.ID, "项羽", "PERSON", bio.Content, 0.95)
	liang := s.newEntity(bio.ID, "项梁", "PERSON", bio.Content, 0.9)
	s.newEntity(bio.ID, "垓下", "LOCATION", bio.Content, 0.9)
	s.newRelation(models.RelationCreateRequest{
		TextID:         bio.ID,
		SourceEntityID: liang.ID,
		TargetEntityID: xiang.ID,
		RelationType:   models.RelationFamily,
		Confidence:     0.9,
		Evidence:       "其季父项梁",
	})
	s.segment(bio)

	pid := project.ID
	s.newText(models.TextUploadRequest{
		Title:     "游褒禅山记（节选）",
		Content:   sampleTravelogue,
		Category:  "travelogue",
		Author:    "王安石",
		Era:       "北宋",
		ProjectID: &pid,
	})
}

func (s *Server) newText(req models.TextUploadRequest) *models.Text {
	now := s.now()
	t := &models.Text{
		ID:          s.nextID(),
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Category:    req.Category,
		Author:      req.Author,
		Era:         req.Era,
		ProjectID:   req.ProjectID,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	s.texts[t.ID] = t
	return t
}

// newEntity annotates the first occurrence of label in content.
func (s *Server) newEntity(textID int64, label, category, content string, confidence float64) *models.Entity {
	start, end := runeSpan(content, label, 0)
	e := &models.Entity{
		ID:          s.nextID(),
		TextID:      textID,
		Label:       label,
		Category:    category,
		StartOffset: start,
		EndOffset:   end,
		Confidence:  confidence,
	}
	s.entities[e.ID] = e
	return e
}

func (s *Server) newRelation(req models.RelationCreateRequest) *models.Relation {
	r := &models.Relation{
		ID:             s.nextID(),
		TextID:         req.TextID,
		SourceEntityID: req.SourceEntityID,
		TargetEntityID: req.TargetEntityID,
		RelationType:   req.RelationType,
		Confidence:     req.Confidence,
		Evidence:       req.Evidence,
	}
	s.relations[r.ID] = r
	return r
}

func (s *Server) newProject(owner *user, name, description string) *models.Project {
	now := s.now()
	p := &models.Project{
		ID:          s.nextID(),
		Name:        name,
		Description: description,
		OwnerID:     owner.profile.ID,
		OwnerName:   owner.profile.Username,
		CreatedAt:   &now,
		UpdatedAt:   &now,
		Members: []models.ProjectMember{{
			UserID:   owner.profile.ID,
			Username: owner.profile.Username,
			Email:    owner.profile.Email,
			Role:     models.RoleOwner,
		}},
	}
	s.projects[p.ID] = p
	return p
}

func (s *Server) recordJob(textID int64, jobType, model string) {
	now := s.now()
	s.jobs = append(s.jobs, models.ModelJob{
		ID:        s.nextID(),
		TextID:    textID,
		JobType:   jobType,
		Status:    "COMPLETED",
		Model:     model,
		CreatedAt: &now,
	})
}

// runeSpan returns the rune offsets of the first occurrence of label in
// content at or after rune offset from, or (-1, -1).
func runeSpan(content, label string, from int) (int, int) {
	runes := []rune(content)
	if from > len(runes) {
		return -1, -1
	}
	idx := strings.Index(string(runes[from:]), label)
	if idx < 0 {
		return -1, -1
	}
	start := from + utf8.RuneCountInString(string(runes[from:])[:idx])
	return start, start + utf8.RuneCountInString(label)
}

func snippet(content string, start, end, pad int) string {
	runes := []rune(content)
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(runes) {
		hi = len(runes)
	}
	return string(runes[lo:hi])
}

func timePtr(t time.Time) *time.Time {
	return &t
}
