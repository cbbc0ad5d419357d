package database

type CollegeHubRepository interface {
	Ping() error

	CreateUser(params CreateUserParams) (User, error)
	GetUserById(id int) (User, error)
	GetUserByEmail(email string) (User, error)
	UpdateProfile(params UpdateProfileParams) (User, error)

	ListColleges() ([]College, error)
	CreateCollege(params CreateCollegeParams) (College, error)

	ListSubgroups(userId int) ([]Subgroup, error)
	ToggleSubgroupMembership(userId, subgroupId int) (joined bool, err error)

	ListPosts(params ListPostsParams) ([]Post, error)
	GetPostById(id int) (Post, error)
	CreatePost(params CreatePostParams) (Post, error)
	VotePost(postId, userId, vote int) (VoteCounts, error)
	ListCollegePosts(collegeName string, limit int) ([]Post, error)

	ListComments(postId int) ([]Comment, error)
	CreateComment(content string, authorId, postId int) (Comment, error)

	ListProjects(userId int) ([]Project, error)
	GetProjectById(id int) (Project, error)
	IsProjectMember(projectId, userId int) (bool, error)
	CreateProject(params CreateProjectParams) (Project, error)
	ListCollegeProjects(collegeName string) ([]Project, error)

	ListTasks(projectId int) ([]Task, error)
	CreateTask(params CreateTaskParams) (Task, error)
	UpdateTaskStatus(taskId int, status string) error

	CreateProjectMessage(content string, senderId, projectId int) (ProjectMessage, error)
	ListProjectMessages(projectId, limit int) ([]ProjectMessage, error)

	GetAdminStats() (AdminStats, error)
}
