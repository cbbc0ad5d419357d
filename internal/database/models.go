package database

import "time"

type User struct {
	Id               int
	Name             string
	EmailAddress     string
	CollegeName      string
	IsStudent        bool
	Role             string
	PasswordHash     string
	Skills           string
	GithubProfile    string
	ProfileCompleted bool
	CreatedAt        time.Time
}

type College struct {
	Id           int
	Name         string
	Domain       string
	StudentCount int
	ProjectCount int
	CreatedAt    time.Time
}

type Subgroup struct {
	Id          int
	Name        string
	Description string
	Icon        string
	MemberCount int
	PostCount   int
	IsJoined    bool
	CreatedAt   time.Time
}

type Post struct {
	Id            int
	Title         string
	Content       string
	AuthorId      int
	AuthorName    string
	AuthorCollege string
	SubgroupId    int
	SubgroupName  string
	PostType      string
	Upvotes       int
	Downvotes     int
	CommentCount  int
	CreatedAt     time.Time
}

type Comment struct {
	Id         int
	Content    string
	AuthorId   int
	AuthorName string
	PostId     int
	CreatedAt  time.Time
}

type Project struct {
	Id          int
	Title       string
	Description string
	OwnerId     int
	OwnerName   string
	Visibility  string
	Tags        string
	MemberCount int
	TaskCounts  map[string]int
	CreatedAt   time.Time
}

type Task struct {
	Id           int
	Title        string
	Description  string
	ProjectId    int
	AssigneeId   int
	AssigneeName string
	Status       string
	CreatedAt    time.Time
}

// ProjectMessage is a persisted chat message. Id and CreatedAt are assigned
// by the database on insert.
type ProjectMessage struct {
	Id         int
	Content    string
	SenderId   int
	SenderName string
	ProjectId  int
	CreatedAt  time.Time
}

type CollegeCount struct {
	College string
	Count   int
}

type AdminStats struct {
	TotalUsers        int
	TotalColleges     int
	TotalProjects     int
	TotalPosts        int
	UsersByCollege    []CollegeCount
	ProjectsByCollege []CollegeCount
}

type VoteCounts struct {
	Upvotes   int
	Downvotes int
}

type CreateUserParams struct {
	Name         string
	EmailAddress string
	CollegeName  string
	IsStudent    bool
	PasswordHash string
}

type UpdateProfileParams struct {
	UserId        int
	Name          string
	CollegeName   string
	Skills        string
	GithubProfile string
}

type CreateCollegeParams struct {
	Name   string
	Domain string
}

type CreatePostParams struct {
	Title      string
	Content    string
	AuthorId   int
	SubgroupId int
	PostType   string
}

type ListPostsParams struct {
	SubgroupId int
	Limit      int
	Offset     int
}

type CreateProjectParams struct {
	Title       string
	Description string
	OwnerId     int
	Visibility  string
	Tags        string
}

type CreateTaskParams struct {
	Title       string
	Description string
	ProjectId   int
	AssigneeId  int
	Status      string
}
