package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prodiny/collegehub/internal/chat"
	"github.com/prodiny/collegehub/internal/config"
	"github.com/prodiny/collegehub/internal/database"
	"github.com/prodiny/collegehub/internal/stats"
	"github.com/prodiny/collegehub/internal/testutil"
	"github.com/prodiny/collegehub/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestApp(t *testing.T, db *database.MockCollegeHubRepository) *CollegeHubApp {
	t.Helper()

	su := &stats.MockStatsUpdater{}
	su.On("RegisterMetric", mock.Anything).Return(nil).Times(4)
	su.On("Incr", mock.Anything).Maybe()
	su.On("Decr", mock.Anything).Maybe()

	logger := testutil.TestLogger(t)
	gateway, err := chat.NewGateway(logger, db, chat.NewRegistry(), su)
	if err != nil {
		t.Fatalf("failed to create test gateway: %v", err)
	}

	cfg := &config.Config{
		ServerAddr: "localhost:8000",
		SigningKey: []byte("test-signing-key"),
	}

	return NewCollegeHubApp(http.NewServeMux(), logger, gateway, db, su, cfg)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return buf
}

func authedRequest(method, target string, body *bytes.Buffer, userId int) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(WithUserId(req.Context(), userId))
}

func TestHealthz(t *testing.T) {
	tcases := []struct {
		name         string
		mockErr      error
		expectedCode int
	}{
		{
			name:         "healthy",
			mockErr:      nil,
			expectedCode: http.StatusOK,
		},
		{
			name:         "database unreachable",
			mockErr:      errors.New("connection refused"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			db := &database.MockCollegeHubRepository{}
			defer db.AssertExpectations(t)
			db.On("Ping").Return(tc.mockErr).Once()

			app := newTestApp(t, db)
			rr := httptest.NewRecorder()
			app.healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestRegister(t *testing.T) {
	expectedUser := database.User{
		Id:           1,
		Name:         "Ananya Rao",
		EmailAddress: "ananya@campus.edu",
		CollegeName:  "IIT Bombay",
		IsStudent:    true,
		PasswordHash: "hashed",
		CreatedAt:    time.Now().UTC(),
	}

	tcases := []struct {
		name         string
		body         any
		mockCreate   bool
		mockErr      error
		expectedCode int
	}{
		{
			name: "successful registration",
			body: RegisterRequest{
				Name:      expectedUser.Name,
				Email:     expectedUser.EmailAddress,
				College:   expectedUser.CollegeName,
				IsStudent: true,
				Password:  "password123",
			},
			mockCreate:   true,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "invalid json body",
			body:         "not json",
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "missing name",
			body: RegisterRequest{
				Email:    expectedUser.EmailAddress,
				College:  expectedUser.CollegeName,
				Password: "password123",
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			body: RegisterRequest{
				Name:     expectedUser.Name,
				Email:    "not-an-email",
				College:  expectedUser.CollegeName,
				Password: "password123",
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "password too short",
			body: RegisterRequest{
				Name:     expectedUser.Name,
				Email:    expectedUser.EmailAddress,
				College:  expectedUser.CollegeName,
				Password: "short",
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: RegisterRequest{
				Name:      expectedUser.Name,
				Email:     expectedUser.EmailAddress,
				College:   expectedUser.CollegeName,
				IsStudent: true,
				Password:  "password123",
			},
			mockCreate:   true,
			mockErr:      errors.New("duplicate key value violates unique constraint"),
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			db := &database.MockCollegeHubRepository{}
			defer db.AssertExpectations(t)
			if tc.mockCreate {
				db.On("CreateUser", mock.AnythingOfType("database.CreateUserParams")).
					Return(expectedUser, tc.mockErr).Once()
			}

			app := newTestApp(t, db)
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, tc.body))
			app.register(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusCreated {
				var u types.User
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
				assert.Equal(t, expectedUser.Id, u.Id)
				assert.Equal(t, expectedUser.EmailAddress, u.EmailAddress)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := hashPassword("password123")
	assert.NoError(t, err)

	dbUser := database.User{
		Id:           1,
		Name:         "Ananya Rao",
		EmailAddress: "ananya@campus.edu",
		PasswordHash: hash,
	}

	t.Run("successful login returns a usable token", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserByEmail", dbUser.EmailAddress).Return(dbUser, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, LoginRequest{
			Email:    dbUser.EmailAddress,
			Password: "password123",
		}))
		app.login(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp LoginResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, dbUser.Id, resp.User.Id)
		assert.NotEmpty(t, resp.Token)

		authedReq := httptest.NewRequest(http.MethodGet, "/", nil)
		authedReq.Header.Set("Authorization", "Bearer "+resp.Token)
		userId, err := app.extractUserIdFromRequest(authedReq)
		assert.NoError(t, err)
		assert.Equal(t, dbUser.Id, userId)
	})

	t.Run("wrong password", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserByEmail", dbUser.EmailAddress).Return(dbUser, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, LoginRequest{
			Email:    dbUser.EmailAddress,
			Password: "not the password",
		}))
		app.login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserByEmail", "nobody@campus.edu").Return(database.User{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, LoginRequest{
			Email:    "nobody@campus.edu",
			Password: "password123",
		}))
		app.login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSession(t *testing.T) {
	t.Run("returns the current user", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{
			Id:           1,
			Name:         "Ananya Rao",
			EmailAddress: "ananya@campus.edu",
			Skills:       "go,sql",
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.session(rr, authedRequest(http.MethodGet, "/api/auth/session", nil, 1))

		assert.Equal(t, http.StatusOK, rr.Code)

		var u types.User
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
		assert.Equal(t, 1, u.Id)
		assert.Equal(t, []string{"go", "sql"}, u.Skills)
	})

	t.Run("deleted user", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.session(rr, authedRequest(http.MethodGet, "/api/auth/session", nil, 1))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProfileSetup(t *testing.T) {
	db := &database.MockCollegeHubRepository{}
	defer db.AssertExpectations(t)
	db.On("UpdateProfile", database.UpdateProfileParams{
		UserId:        1,
		Name:          "Ananya Rao",
		CollegeName:   "IIT Bombay",
		Skills:        "go,sql",
		GithubProfile: "https://github.com/ananya",
	}).Return(database.User{Id: 1, ProfileCompleted: true}, nil).Once()

	app := newTestApp(t, db)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/auth/profile-setup", jsonBody(t, ProfileSetupRequest{
		Name:          "Ananya Rao",
		College:       "IIT Bombay",
		Skills:        []string{"go", "sql"},
		GithubProfile: "https://github.com/ananya",
	}), 1)
	app.profileSetup(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var u types.User
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
	assert.True(t, u.ProfileCompleted)
}

func TestListPosts(t *testing.T) {
	t.Run("defaults and subgroup filter", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListPosts", database.ListPostsParams{SubgroupId: 3, Limit: 10, Offset: 10}).
			Return([]database.Post{{Id: 1, Title: "hello"}}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/posts?page=2&limit=10&subgroup=3", nil)
		app.listPosts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var posts []types.Post
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&posts))
		assert.Len(t, posts, 1)
		assert.Equal(t, "hello", posts[0].Title)
	})

	t.Run("invalid page", func(t *testing.T) {
		app := newTestApp(t, &database.MockCollegeHubRepository{})
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/posts?page=zero", nil)
		app.listPosts(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreatePost(t *testing.T) {
	db := &database.MockCollegeHubRepository{}
	defer db.AssertExpectations(t)
	db.On("CreatePost", database.CreatePostParams{
		Title:      "office hours",
		Content:    "anyone going?",
		AuthorId:   1,
		SubgroupId: 3,
		PostType:   "discussion",
	}).Return(database.Post{Id: 9, Title: "office hours", PostType: "discussion"}, nil).Once()

	app := newTestApp(t, db)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/posts", jsonBody(t, CreatePostRequest{
		Title:      "office hours",
		Content:    "anyone going?",
		SubgroupId: 3,
	}), 1)
	app.createPost(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestVotePost(t *testing.T) {
	t.Run("successful vote returns counts", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("VotePost", 9, 1, 1).Return(database.VoteCounts{Upvotes: 4, Downvotes: 1}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPut, "/api/posts/9/vote", jsonBody(t, VoteRequest{Vote: 1}), 1)
		req.SetPathValue("id", "9")
		app.votePost(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var counts map[string]int
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&counts))
		assert.Equal(t, 4, counts["upvotes"])
		assert.Equal(t, 1, counts["downvotes"])
	})

	t.Run("vote out of range", func(t *testing.T) {
		app := newTestApp(t, &database.MockCollegeHubRepository{})
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPut, "/api/posts/9/vote", jsonBody(t, VoteRequest{Vote: 2}), 1)
		req.SetPathValue("id", "9")
		app.votePost(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown post", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("VotePost", 404, 1, -1).Return(database.VoteCounts{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPut, "/api/posts/404/vote", jsonBody(t, VoteRequest{Vote: -1}), 1)
		req.SetPathValue("id", "404")
		app.votePost(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestComments(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListComments", 9).Return([]database.Comment{
			{Id: 1, Content: "same", AuthorName: "dev"},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/posts/9/comments", nil)
		req.SetPathValue("id", "9")
		app.listComments(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("create", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetPostById", 9).Return(database.Post{Id: 9}, nil).Once()
		db.On("CreateComment", "count me in", 1, 9).
			Return(database.Comment{Id: 2, Content: "count me in", AuthorId: 1, PostId: 9}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/posts/9/comments", jsonBody(t, CreateCommentRequest{
			Content: "count me in",
		}), 1)
		req.SetPathValue("id", "9")
		app.createComment(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("create on missing post", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetPostById", 404).Return(database.Post{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/posts/404/comments", jsonBody(t, CreateCommentRequest{
			Content: "count me in",
		}), 1)
		req.SetPathValue("id", "404")
		app.createComment(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		db.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubgroups(t *testing.T) {
	t.Run("list passes the caller's id", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListSubgroups", 1).Return([]database.Subgroup{
			{Id: 3, Name: "placements", IsJoined: true},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.listSubgroups(rr, authedRequest(http.MethodGet, "/api/subgroups", nil, 1))

		assert.Equal(t, http.StatusOK, rr.Code)

		var subgroups []types.Subgroup
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&subgroups))
		assert.Len(t, subgroups, 1)
		assert.True(t, subgroups[0].IsJoined)
	})

	t.Run("anonymous list uses user id zero", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListSubgroups", 0).Return([]database.Subgroup{}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.listSubgroups(rr, httptest.NewRequest(http.MethodGet, "/api/subgroups", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("join toggles membership", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ToggleSubgroupMembership", 1, 3).Return(true, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/subgroups/3/join", nil, 1)
		req.SetPathValue("id", "3")
		app.joinSubgroup(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]bool
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(t, resp["joined"])
	})
}

func TestProjects(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListProjects", 1).Return([]database.Project{
			{Id: 7, Title: "compiler", Tags: "go,parsers", TaskCounts: map[string]int{"todo": 2, "doing": 1, "done": 0}},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.listProjects(rr, authedRequest(http.MethodGet, "/api/projects", nil, 1))

		assert.Equal(t, http.StatusOK, rr.Code)

		var projects []types.Project
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&projects))
		assert.Len(t, projects, 1)
		assert.Equal(t, []string{"go", "parsers"}, projects[0].Tags)
		assert.Equal(t, 2, projects[0].TaskCounts["todo"])
	})

	t.Run("create defaults visibility", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("CreateProject", database.CreateProjectParams{
			Title:      "compiler",
			OwnerId:    1,
			Visibility: "public",
		}).Return(database.Project{Id: 7, Title: "compiler", Visibility: "public"}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/projects", jsonBody(t, CreateProjectRequest{
			Title: "compiler",
		}), 1)
		app.createProject(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("create accepts the stored visibility values", func(t *testing.T) {
		for _, visibility := range []string{"public", "college_only", "private"} {
			db := &database.MockCollegeHubRepository{}
			db.On("CreateProject", database.CreateProjectParams{
				Title:      "compiler",
				OwnerId:    1,
				Visibility: visibility,
			}).Return(database.Project{Id: 7, Title: "compiler", Visibility: visibility}, nil).Once()

			app := newTestApp(t, db)
			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodPost, "/api/projects", jsonBody(t, CreateProjectRequest{
				Title:      "compiler",
				Visibility: visibility,
			}), 1)
			app.createProject(rr, req)

			assert.Equal(t, http.StatusCreated, rr.Code, "expected visibility %q to be accepted", visibility)
			db.AssertExpectations(t)
		}
	})

	t.Run("create rejects an unknown visibility", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/projects", jsonBody(t, CreateProjectRequest{
			Title:      "compiler",
			Visibility: "college",
		}), 1)
		app.createProject(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		db.AssertNotCalled(t, "CreateProject", mock.Anything)
	})

	t.Run("get unknown project", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetProjectById", 404).Return(database.Project{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/projects/404", nil, 1)
		req.SetPathValue("id", "404")
		app.getProject(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTasks(t *testing.T) {
	t.Run("create requires an existing project", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetProjectById", 404).Return(database.Project{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/tasks", jsonBody(t, CreateTaskRequest{
			Title:     "write lexer",
			ProjectId: 404,
		}), 1)
		app.createTask(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("create starts in todo", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetProjectById", 7).Return(database.Project{Id: 7}, nil).Once()
		db.On("CreateTask", database.CreateTaskParams{
			Title:     "write lexer",
			ProjectId: 7,
			Status:    "todo",
		}).Return(database.Task{Id: 1, Title: "write lexer", ProjectId: 7, Status: "todo"}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/tasks", jsonBody(t, CreateTaskRequest{
			Title:     "write lexer",
			ProjectId: 7,
		}), 1)
		app.createTask(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("status update rejects unknown status", func(t *testing.T) {
		app := newTestApp(t, &database.MockCollegeHubRepository{})
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPut, "/api/tasks/1/status", jsonBody(t, UpdateTaskStatusRequest{
			Status: "blocked",
		}), 1)
		req.SetPathValue("id", "1")
		app.updateTaskStatus(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("status update on missing task", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("UpdateTaskStatus", 404, "done").Return(sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPut, "/api/tasks/404/status", jsonBody(t, UpdateTaskStatusRequest{
			Status: "done",
		}), 1)
		req.SetPathValue("id", "404")
		app.updateTaskStatus(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProjectMessages(t *testing.T) {
	t.Run("history", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetProjectById", 7).Return(database.Project{Id: 7}, nil).Once()
		db.On("ListProjectMessages", 7, 0).Return([]database.ProjectMessage{
			{Id: 1, Content: "first", SenderName: "ananya", ProjectId: 7},
			{Id: 2, Content: "second", SenderName: "dev", ProjectId: 7},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/projects/7/messages", nil, 1)
		req.SetPathValue("id", "7")
		app.listProjectMessages(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var messages []types.ChatMessage
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&messages))
		assert.Len(t, messages, 2)
		assert.Equal(t, "first", messages[0].Content)
	})

	t.Run("history of unknown project", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetProjectById", 404).Return(database.Project{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/projects/404/messages", nil, 1)
		req.SetPathValue("id", "404")
		app.listProjectMessages(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("send persists through the gateway", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{Id: 1, Name: "ananya"}, nil).Once()
		db.On("GetProjectById", 7).Return(database.Project{Id: 7}, nil).Once()
		db.On("CreateProjectMessage", "shipping tonight", 1, 7).
			Return(database.ProjectMessage{Id: 3, Content: "shipping tonight", SenderId: 1, ProjectId: 7}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/projects/7/messages", jsonBody(t, SendMessageRequest{
			Content: "shipping tonight",
		}), 1)
		req.SetPathValue("id", "7")
		app.createProjectMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var msg types.ChatMessage
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&msg))
		assert.Equal(t, 3, msg.Id)
		assert.Equal(t, "ananya", msg.SenderName)
	})

	t.Run("send empty content", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/projects/7/messages", jsonBody(t, SendMessageRequest{
			Content: "   ",
		}), 1)
		req.SetPathValue("id", "7")
		app.createProjectMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		db.AssertNotCalled(t, "CreateProjectMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestColleges(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListColleges").Return([]database.College{
			{Id: 1, Name: "IIT Bombay", StudentCount: 120, ProjectCount: 14},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.listColleges(rr, httptest.NewRequest(http.MethodGet, "/api/colleges", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("college posts", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("ListCollegePosts", "IIT Bombay", 20).Return([]database.Post{{Id: 1}}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/colleges/IIT%20Bombay/posts", nil)
		req.SetPathValue("name", "IIT Bombay")
		app.collegePosts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAdminStats(t *testing.T) {
	t.Run("non-admin is forbidden", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{Id: 1, Role: "student"}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.adminStats(rr, authedRequest(http.MethodGet, "/api/admin/stats", nil, 1))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		db.AssertNotCalled(t, "GetAdminStats")
	})

	t.Run("admin gets totals", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{Id: 1, Role: "admin"}, nil).Once()
		db.On("GetAdminStats").Return(database.AdminStats{
			TotalUsers:     120,
			TotalColleges:  4,
			TotalProjects:  14,
			TotalPosts:     230,
			UsersByCollege: []database.CollegeCount{{College: "IIT Bombay", Count: 80}},
		}, nil).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.adminStats(rr, authedRequest(http.MethodGet, "/api/admin/stats", nil, 1))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp types.AdminStats
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 120, resp.TotalUsers)
		assert.Len(t, resp.UsersByCollege, 1)
	})
}

func TestServeWs(t *testing.T) {
	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		app := newTestApp(t, &database.MockCollegeHubRepository{})
		rr := httptest.NewRecorder()
		app.serveWs(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("deleted user is rejected", func(t *testing.T) {
		db := &database.MockCollegeHubRepository{}
		defer db.AssertExpectations(t)
		db.On("GetUserById", 1).Return(database.User{}, sql.ErrNoRows).Once()

		app := newTestApp(t, db)
		rr := httptest.NewRecorder()
		app.serveWs(rr, authedRequest(http.MethodGet, "/ws", nil, 1))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
