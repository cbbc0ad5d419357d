package database

import (
	"github.com/stretchr/testify/mock"
)

type MockCollegeHubRepository struct {
	mock.Mock
}

func (m *MockCollegeHubRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockCollegeHubRepository) CreateUser(params CreateUserParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCollegeHubRepository) GetUserById(id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCollegeHubRepository) GetUserByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCollegeHubRepository) UpdateProfile(params UpdateProfileParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCollegeHubRepository) ListColleges() ([]College, error) {
	args := m.Called()
	return args.Get(0).([]College), args.Error(1)
}
func (m *MockCollegeHubRepository) CreateCollege(params CreateCollegeParams) (College, error) {
	args := m.Called(params)
	return args.Get(0).(College), args.Error(1)
}
func (m *MockCollegeHubRepository) ListSubgroups(userId int) ([]Subgroup, error) {
	args := m.Called(userId)
	return args.Get(0).([]Subgroup), args.Error(1)
}
func (m *MockCollegeHubRepository) ToggleSubgroupMembership(userId, subgroupId int) (bool, error) {
	args := m.Called(userId, subgroupId)
	return args.Bool(0), args.Error(1)
}
func (m *MockCollegeHubRepository) ListPosts(params ListPostsParams) ([]Post, error) {
	args := m.Called(params)
	return args.Get(0).([]Post), args.Error(1)
}
func (m *MockCollegeHubRepository) GetPostById(id int) (Post, error) {
	args := m.Called(id)
	return args.Get(0).(Post), args.Error(1)
}
func (m *MockCollegeHubRepository) CreatePost(params CreatePostParams) (Post, error) {
	args := m.Called(params)
	return args.Get(0).(Post), args.Error(1)
}
func (m *MockCollegeHubRepository) VotePost(postId, userId, vote int) (VoteCounts, error) {
	args := m.Called(postId, userId, vote)
	return args.Get(0).(VoteCounts), args.Error(1)
}
func (m *MockCollegeHubRepository) ListCollegePosts(collegeName string, limit int) ([]Post, error) {
	args := m.Called(collegeName, limit)
	return args.Get(0).([]Post), args.Error(1)
}
func (m *MockCollegeHubRepository) ListComments(postId int) ([]Comment, error) {
	args := m.Called(postId)
	return args.Get(0).([]Comment), args.Error(1)
}
func (m *MockCollegeHubRepository) CreateComment(content string, authorId, postId int) (Comment, error) {
	args := m.Called(content, authorId, postId)
	return args.Get(0).(Comment), args.Error(1)
}
func (m *MockCollegeHubRepository) ListProjects(userId int) ([]Project, error) {
	args := m.Called(userId)
	return args.Get(0).([]Project), args.Error(1)
}
func (m *MockCollegeHubRepository) GetProjectById(id int) (Project, error) {
	args := m.Called(id)
	return args.Get(0).(Project), args.Error(1)
}
func (m *MockCollegeHubRepository) IsProjectMember(projectId, userId int) (bool, error) {
	args := m.Called(projectId, userId)
	return args.Bool(0), args.Error(1)
}
func (m *MockCollegeHubRepository) CreateProject(params CreateProjectParams) (Project, error) {
	args := m.Called(params)
	return args.Get(0).(Project), args.Error(1)
}
func (m *MockCollegeHubRepository) ListCollegeProjects(collegeName string) ([]Project, error) {
	args := m.Called(collegeName)
	return args.Get(0).([]Project), args.Error(1)
}
func (m *MockCollegeHubRepository) ListTasks(projectId int) ([]Task, error) {
	args := m.Called(projectId)
	return args.Get(0).([]Task), args.Error(1)
}
func (m *MockCollegeHubRepository) CreateTask(params CreateTaskParams) (Task, error) {
	args := m.Called(params)
	return args.Get(0).(Task), args.Error(1)
}
func (m *MockCollegeHubRepository) UpdateTaskStatus(taskId int, status string) error {
	args := m.Called(taskId, status)
	return args.Error(0)
}
func (m *MockCollegeHubRepository) CreateProjectMessage(content string, senderId, projectId int) (ProjectMessage, error) {
	args := m.Called(content, senderId, projectId)
	return args.Get(0).(ProjectMessage), args.Error(1)
}
func (m *MockCollegeHubRepository) ListProjectMessages(projectId, limit int) ([]ProjectMessage, error) {
	args := m.Called(projectId, limit)
	return args.Get(0).([]ProjectMessage), args.Error(1)
}
func (m *MockCollegeHubRepository) GetAdminStats() (AdminStats, error) {
	args := m.Called()
	return args.Get(0).(AdminStats), args.Error(1)
}
