package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/prodiny/collegehub/internal/chat"
	"github.com/prodiny/collegehub/internal/database"
	"github.com/prodiny/collegehub/internal/types"
)

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	College   string `json:"college" validate:"required"`
	IsStudent bool   `json:"is_student"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

type ProfileSetupRequest struct {
	Name          string   `json:"name" validate:"required"`
	College       string   `json:"college" validate:"required"`
	Skills        []string `json:"skills"`
	GithubProfile string   `json:"github_profile"`
}

type CreatePostRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	SubgroupId int    `json:"subgroup_id"`
	PostType   string `json:"post_type" validate:"omitempty,oneof=discussion question announcement"`
}

type VoteRequest struct {
	Vote int `json:"vote"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=public college_only private"`
	Tags        []string `json:"tags"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ProjectId   int    `json:"project_id" validate:"required"`
	AssigneeId  int    `json:"assignee_id"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo doing done"`
}

type CreateCollegeRequest struct {
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

func (s *CollegeHubApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

// splitList and joinList convert between the comma-separated storage form
// and the JSON array form of skills and tags.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func userResponse(u database.User) types.User {
	return types.User{
		Id:               u.Id,
		Name:             u.Name,
		EmailAddress:     u.EmailAddress,
		CollegeName:      u.CollegeName,
		IsStudent:        u.IsStudent,
		Role:             u.Role,
		Skills:           splitList(u.Skills),
		GithubProfile:    u.GithubProfile,
		ProfileCompleted: u.ProfileCompleted,
		CreatedAt:        u.CreatedAt,
	}
}

func postResponse(p database.Post) types.Post {
	return types.Post{
		Id:            p.Id,
		Title:         p.Title,
		Content:       p.Content,
		AuthorName:    p.AuthorName,
		AuthorCollege: p.AuthorCollege,
		SubgroupName:  p.SubgroupName,
		PostType:      p.PostType,
		Upvotes:       p.Upvotes,
		Downvotes:     p.Downvotes,
		CommentCount:  p.CommentCount,
		CreatedAt:     p.CreatedAt,
	}
}

func projectResponse(p database.Project) types.Project {
	return types.Project{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		OwnerName:   p.OwnerName,
		Visibility:  p.Visibility,
		Tags:        splitList(p.Tags),
		MemberCount: p.MemberCount,
		TaskCounts:  p.TaskCounts,
		CreatedAt:   p.CreatedAt,
	}
}

func taskResponse(t database.Task) types.Task {
	return types.Task{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		ProjectId:    t.ProjectId,
		AssigneeName: t.AssigneeName,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
	}
}

func messageResponse(m database.ProjectMessage) types.ChatMessage {
	return types.ChatMessage{
		Id:         m.Id,
		Content:    m.Content,
		SenderName: m.SenderName,
		ProjectId:  m.ProjectId,
		CreatedAt:  m.CreatedAt,
	}
}

func (s *CollegeHubApp) index(w http.ResponseWriter, _ *http.Request) {
	s.writeJson(w, http.StatusOK, map[string]string{"message": "CollegeHub API"})
}

func (s *CollegeHubApp) healthz(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("healthz:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *CollegeHubApp) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	pwdHash, err := hashPassword(req.Password)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	params := database.CreateUserParams{
		Name:         req.Name,
		EmailAddress: req.Email,
		CollegeName:  req.College,
		IsStudent:    req.IsStudent,
		PasswordHash: pwdHash,
	}

	newUser, err := s.db.CreateUser(params)
	if err != nil {
		s.log.Println("create user:", err)
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, userResponse(newUser))
}

func (s *CollegeHubApp) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbUser, err := s.db.GetUserByEmail(req.Email)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewUnauthorizedError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !verifyPassword(dbUser.PasswordHash, req.Password) {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	u := userResponse(dbUser)

	token, err := s.createJwtForSession(u, defaultJwtExpiration)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

func (s *CollegeHubApp) session(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetUserById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, userResponse(user))
}

func (s *CollegeHubApp) profileSetup(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req ProfileSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	params := database.UpdateProfileParams{
		UserId:        userId,
		Name:          req.Name,
		CollegeName:   req.College,
		Skills:        joinList(req.Skills),
		GithubProfile: req.GithubProfile,
	}

	user, err := s.db.UpdateProfile(params)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, userResponse(user))
}

func (s *CollegeHubApp) listPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 20

	var err error
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	var subgroupId int
	if sgStr := r.URL.Query().Get("subgroup"); sgStr != "" {
		subgroupId, err = strconv.Atoi(sgStr)
		if err != nil {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	dbPosts, err := s.db.ListPosts(database.ListPostsParams{
		SubgroupId: subgroupId,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		s.log.Println("list posts:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	posts := make([]types.Post, 0, len(dbPosts))
	for _, p := range dbPosts {
		posts = append(posts, postResponse(p))
	}

	s.writeJson(w, http.StatusOK, posts)
}

func (s *CollegeHubApp) createPost(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.PostType == "" {
		req.PostType = "discussion"
	}

	newPost, err := s.db.CreatePost(database.CreatePostParams{
		Title:      req.Title,
		Content:    req.Content,
		AuthorId:   userId,
		SubgroupId: req.SubgroupId,
		PostType:   req.PostType,
	})
	if err != nil {
		s.log.Println("create post:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, postResponse(newPost))
}

func (s *CollegeHubApp) votePost(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	postId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Vote < -1 || req.Vote > 1 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	counts, err := s.db.VotePost(postId, userId, req.Vote)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			s.log.Println("vote post:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{
		"upvotes":   counts.Upvotes,
		"downvotes": counts.Downvotes,
	})
}

func (s *CollegeHubApp) listComments(w http.ResponseWriter, r *http.Request) {
	postId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbComments, err := s.db.ListComments(postId)
	if err != nil {
		s.log.Println("list comments:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	comments := make([]types.Comment, 0, len(dbComments))
	for _, c := range dbComments {
		comments = append(comments, types.Comment{
			Id:         c.Id,
			Content:    c.Content,
			AuthorName: c.AuthorName,
			CreatedAt:  c.CreatedAt,
		})
	}

	s.writeJson(w, http.StatusOK, comments)
}

func (s *CollegeHubApp) createComment(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	postId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.db.GetPostById(postId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	newComment, err := s.db.CreateComment(req.Content, userId, postId)
	if err != nil {
		s.log.Println("create comment:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, types.Comment{
		Id:         newComment.Id,
		Content:    newComment.Content,
		AuthorName: newComment.AuthorName,
		CreatedAt:  newComment.CreatedAt,
	})
}

func (s *CollegeHubApp) listSubgroups(w http.ResponseWriter, r *http.Request) {
	// anonymous callers get is_joined=false everywhere
	userId, _ := UserId(r.Context())

	dbSubgroups, err := s.db.ListSubgroups(userId)
	if err != nil {
		s.log.Println("list subgroups:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	subgroups := make([]types.Subgroup, 0, len(dbSubgroups))
	for _, sg := range dbSubgroups {
		subgroups = append(subgroups, types.Subgroup{
			Id:          sg.Id,
			Name:        sg.Name,
			Description: sg.Description,
			Icon:        sg.Icon,
			MemberCount: sg.MemberCount,
			PostCount:   sg.PostCount,
			IsJoined:    sg.IsJoined,
		})
	}

	s.writeJson(w, http.StatusOK, subgroups)
}

func (s *CollegeHubApp) joinSubgroup(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	subgroupId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	joined, err := s.db.ToggleSubgroupMembership(userId, subgroupId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			s.log.Println("toggle subgroup membership:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]bool{"joined": joined})
}

func (s *CollegeHubApp) listProjects(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbProjects, err := s.db.ListProjects(userId)
	if err != nil {
		s.log.Println("list projects:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	projects := make([]types.Project, 0, len(dbProjects))
	for _, p := range dbProjects {
		projects = append(projects, projectResponse(p))
	}

	s.writeJson(w, http.StatusOK, projects)
}

func (s *CollegeHubApp) createProject(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Visibility == "" {
		req.Visibility = "public"
	}

	newProject, err := s.db.CreateProject(database.CreateProjectParams{
		Title:       req.Title,
		Description: req.Description,
		OwnerId:     userId,
		Visibility:  req.Visibility,
		Tags:        joinList(req.Tags),
	})
	if err != nil {
		s.log.Println("create project:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, projectResponse(newProject))
}

func (s *CollegeHubApp) getProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	project, err := s.db.GetProjectById(projectId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, projectResponse(project))
}

func (s *CollegeHubApp) listTasks(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbTasks, err := s.db.ListTasks(projectId)
	if err != nil {
		s.log.Println("list tasks:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	tasks := make([]types.Task, 0, len(dbTasks))
	for _, t := range dbTasks {
		tasks = append(tasks, taskResponse(t))
	}

	s.writeJson(w, http.StatusOK, tasks)
}

func (s *CollegeHubApp) createTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.db.GetProjectById(req.ProjectId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	newTask, err := s.db.CreateTask(database.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		ProjectId:   req.ProjectId,
		AssigneeId:  req.AssigneeId,
		Status:      "todo",
	})
	if err != nil {
		s.log.Println("create task:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, taskResponse(newTask))
}

func (s *CollegeHubApp) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.UpdateTaskStatus(taskId, req.Status); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			s.log.Println("update task status:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *CollegeHubApp) listProjectMessages(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var limit int
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	if _, err := s.db.GetProjectById(projectId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbMessages, err := s.db.ListProjectMessages(projectId, limit)
	if err != nil {
		s.log.Println("list project messages:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages := make([]types.ChatMessage, 0, len(dbMessages))
	for _, m := range dbMessages {
		messages = append(messages, messageResponse(m))
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *CollegeHubApp) createProjectMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	projectId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.gateway.SendProjectMessage(userId, projectId, req.Content)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, chat.ErrInvalidRequest) {
			errResp = NewBadRequestError()
		} else {
			s.log.Println("send project message:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, msg)
}

func (s *CollegeHubApp) listColleges(w http.ResponseWriter, _ *http.Request) {
	dbColleges, err := s.db.ListColleges()
	if err != nil {
		s.log.Println("list colleges:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	colleges := make([]types.College, 0, len(dbColleges))
	for _, c := range dbColleges {
		colleges = append(colleges, types.College{
			Id:           c.Id,
			Name:         c.Name,
			Domain:       c.Domain,
			StudentCount: c.StudentCount,
			ProjectCount: c.ProjectCount,
		})
	}

	s.writeJson(w, http.StatusOK, colleges)
}

func (s *CollegeHubApp) createCollege(w http.ResponseWriter, r *http.Request) {
	var req CreateCollegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewValidationError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	newCollege, err := s.db.CreateCollege(database.CreateCollegeParams{
		Name:   req.Name,
		Domain: req.Domain,
	})
	if err != nil {
		s.log.Println("create college:", err)
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, types.College{
		Id:     newCollege.Id,
		Name:   newCollege.Name,
		Domain: newCollege.Domain,
	})
}

func (s *CollegeHubApp) collegePosts(w http.ResponseWriter, r *http.Request) {
	collegeName := r.PathValue("name")

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	dbPosts, err := s.db.ListCollegePosts(collegeName, limit)
	if err != nil {
		s.log.Println("list college posts:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	posts := make([]types.Post, 0, len(dbPosts))
	for _, p := range dbPosts {
		posts = append(posts, postResponse(p))
	}

	s.writeJson(w, http.StatusOK, posts)
}

func (s *CollegeHubApp) collegeProjects(w http.ResponseWriter, r *http.Request) {
	collegeName := r.PathValue("name")

	dbProjects, err := s.db.ListCollegeProjects(collegeName)
	if err != nil {
		s.log.Println("list college projects:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	projects := make([]types.Project, 0, len(dbProjects))
	for _, p := range dbProjects {
		projects = append(projects, projectResponse(p))
	}

	s.writeJson(w, http.StatusOK, projects)
}

func (s *CollegeHubApp) adminStats(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetUserById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if user.Role != "admin" {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbStats, err := s.db.GetAdminStats()
	if err != nil {
		s.log.Println("admin stats:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	stats := types.AdminStats{
		TotalUsers:    dbStats.TotalUsers,
		TotalColleges: dbStats.TotalColleges,
		TotalProjects: dbStats.TotalProjects,
		TotalPosts:    dbStats.TotalPosts,
	}
	for _, c := range dbStats.UsersByCollege {
		stats.UsersByCollege = append(stats.UsersByCollege, types.CollegeCount{College: c.College, Count: c.Count})
	}
	for _, c := range dbStats.ProjectsByCollege {
		stats.ProjectsByCollege = append(stats.ProjectsByCollege, types.CollegeCount{College: c.College, Count: c.Count})
	}

	s.writeJson(w, http.StatusOK, stats)
}

func (s *CollegeHubApp) serveWs(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetUserById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	s.gateway.Connect(userResponse(user), conn)
}
