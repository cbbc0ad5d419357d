package types

import (
	"time"
)

type User struct {
	Id               int       `json:"id"`
	Name             string    `json:"name"`
	EmailAddress     string    `json:"email"`
	CollegeName      string    `json:"college_name,omitempty"`
	IsStudent        bool      `json:"is_student"`
	Role             string    `json:"role,omitempty"`
	Skills           []string  `json:"skills,omitempty"`
	GithubProfile    string    `json:"github_profile,omitempty"`
	ProfileCompleted bool      `json:"profile_completed"`
	Password         string    `json:"-"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

type College struct {
	Id           int    `json:"id"`
	Name         string `json:"name"`
	Domain       string `json:"domain,omitempty"`
	StudentCount int    `json:"student_count"`
	ProjectCount int    `json:"project_count"`
}

type Subgroup struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	MemberCount int    `json:"member_count"`
	PostCount   int    `json:"post_count"`
	IsJoined    bool   `json:"is_joined"`
}

type Post struct {
	Id            int       `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	AuthorCollege string    `json:"author_college,omitempty"`
	SubgroupName  string    `json:"subgroup_name,omitempty"`
	PostType      string    `json:"post_type"`
	Upvotes       int       `json:"upvotes"`
	Downvotes     int       `json:"downvotes"`
	CommentCount  int       `json:"comment_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type Comment struct {
	Id         int       `json:"id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Project struct {
	Id          int            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	OwnerName   string         `json:"owner_name"`
	Visibility  string         `json:"visibility"`
	Tags        []string       `json:"tags"`
	MemberCount int            `json:"member_count"`
	TaskCounts  map[string]int `json:"task_counts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Task struct {
	Id           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ProjectId    int       `json:"project_id"`
	AssigneeName string    `json:"assignee_name,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatMessage is the wire shape of a persisted project chat message, used
// both in history responses and inside broadcast frames.
type ChatMessage struct {
	Id         int       `json:"id"`
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	ProjectId  int       `json:"project_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers        int            `json:"total_users"`
	TotalColleges     int            `json:"total_colleges"`
	TotalProjects     int            `json:"total_projects"`
	TotalPosts        int            `json:"total_posts"`
	UsersByCollege    []CollegeCount `json:"users_by_college"`
	ProjectsByCollege []CollegeCount `json:"projects_by_college"`
}

type CollegeCount struct {
	College string `json:"college"`
	Count   int    `json:"count"`
}
