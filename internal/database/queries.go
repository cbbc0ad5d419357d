package database

import (
	"database/sql"
	"fmt"
	"time"
)

const defaultMessageLimit = 50

// nullableId maps the zero value of an optional foreign key to SQL NULL so
// it never trips the referenced table's constraint.
func nullableId(id int) any {
	if id > 0 {
		return id
	}
	return nil
}

func (db *PgCollegeHubRepository) CreateUser(params CreateUserParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (name, email, college_name, is_student, password_hash, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, name, email, college_name, is_student, role, created_at",
		params.Name,
		params.EmailAddress,
		params.CollegeName,
		params.IsStudent,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Name,
		&u.EmailAddress,
		&u.CollegeName,
		&u.IsStudent,
		&u.Role,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgCollegeHubRepository) GetUserById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, email, college_name, is_student, role, password_hash, skills, github_profile, profile_completed, created_at "+
			"FROM users WHERE id = $1 LIMIT 1",
		id,
	)

	return scanUser(row)
}

func (db *PgCollegeHubRepository) GetUserByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, email, college_name, is_student, role, password_hash, skills, github_profile, profile_completed, created_at "+
			"FROM users WHERE email = $1 LIMIT 1",
		email,
	)

	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.Id,
		&u.Name,
		&u.EmailAddress,
		&u.CollegeName,
		&u.IsStudent,
		&u.Role,
		&u.PasswordHash,
		&u.Skills,
		&u.GithubProfile,
		&u.ProfileCompleted,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgCollegeHubRepository) UpdateProfile(params UpdateProfileParams) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE users SET name = $2, college_name = $3, skills = $4, github_profile = $5, profile_completed = TRUE "+
			"WHERE id = $1 "+
			"RETURNING id, name, email, college_name, is_student, role, password_hash, skills, github_profile, profile_completed, created_at",
		params.UserId,
		params.Name,
		params.CollegeName,
		params.Skills,
		params.GithubProfile,
	)

	return scanUser(row)
}

func (db *PgCollegeHubRepository) ListColleges() ([]College, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.name, c.domain, " +
			"(SELECT COUNT(*) FROM users u WHERE u.college_name = c.name) AS student_count, " +
			"(SELECT COUNT(*) FROM projects p JOIN users u ON p.owner_id = u.id WHERE u.college_name = c.name) AS project_count " +
			"FROM colleges c ORDER BY student_count DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colleges []College
	for rows.Next() {
		var c College
		if err := rows.Scan(&c.Id, &c.Name, &c.Domain, &c.StudentCount, &c.ProjectCount); err != nil {
			return nil, err
		}
		colleges = append(colleges, c)
	}

	return colleges, rows.Err()
}

func (db *PgCollegeHubRepository) CreateCollege(params CreateCollegeParams) (College, error) {
	res := db.conn.QueryRow(
		"INSERT INTO colleges (name, domain, created_at) VALUES ($1, $2, $3) RETURNING id, name, domain",
		params.Name,
		params.Domain,
		time.Now().UTC(),
	)

	var c College
	err := res.Scan(&c.Id, &c.Name, &c.Domain)

	return c, err
}

func (db *PgCollegeHubRepository) ListSubgroups(userId int) ([]Subgroup, error) {
	rows, err := db.conn.Query(
		"SELECT s.id, s.name, s.description, s.icon, "+
			"(SELECT COUNT(*) FROM user_subgroups us WHERE us.subgroup_id = s.id) AS member_count, "+
			"(SELECT COUNT(*) FROM posts p WHERE p.subgroup_id = s.id) AS post_count, "+
			"EXISTS (SELECT 1 FROM user_subgroups us WHERE us.subgroup_id = s.id AND us.user_id = $1) AS is_joined "+
			"FROM subgroups s ORDER BY member_count DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subgroups []Subgroup
	for rows.Next() {
		var s Subgroup
		if err := rows.Scan(&s.Id, &s.Name, &s.Description, &s.Icon, &s.MemberCount, &s.PostCount, &s.IsJoined); err != nil {
			return nil, err
		}
		subgroups = append(subgroups, s)
	}

	return subgroups, rows.Err()
}

func (db *PgCollegeHubRepository) ToggleSubgroupMembership(userId, subgroupId int) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM user_subgroups WHERE user_id = $1 AND subgroup_id = $2)",
		userId, subgroupId,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	if exists {
		_, err = tx.Exec(
			"DELETE FROM user_subgroups WHERE user_id = $1 AND subgroup_id = $2",
			userId, subgroupId,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO user_subgroups (user_id, subgroup_id, joined_at) VALUES ($1, $2, $3)",
			userId, subgroupId, time.Now().UTC(),
		)
	}
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return !exists, nil
}

const listPostsQuery = "SELECT p.id, p.title, p.content, COALESCE(u.name, 'Unknown'), COALESCE(u.college_name, ''), COALESCE(s.name, ''), " +
	"p.post_type, p.upvotes, p.downvotes, " +
	"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count, p.created_at " +
	"FROM posts p " +
	"LEFT JOIN users u ON p.author_id = u.id " +
	"LEFT JOIN subgroups s ON p.subgroup_id = s.id"

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.Id,
			&p.Title,
			&p.Content,
			&p.AuthorName,
			&p.AuthorCollege,
			&p.SubgroupName,
			&p.PostType,
			&p.Upvotes,
			&p.Downvotes,
			&p.CommentCount,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (db *PgCollegeHubRepository) ListPosts(params ListPostsParams) ([]Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if params.SubgroupId > 0 {
		rows, err = db.conn.Query(
			listPostsQuery+" WHERE p.subgroup_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3",
			params.SubgroupId, params.Limit, params.Offset,
		)
	} else {
		rows, err = db.conn.Query(
			listPostsQuery+" ORDER BY p.created_at DESC LIMIT $1 OFFSET $2",
			params.Limit, params.Offset,
		)
	}
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func (db *PgCollegeHubRepository) CreatePost(params CreatePostParams) (Post, error) {
	var postId int
	err := db.conn.QueryRow(
		"INSERT INTO posts (title, content, author_id, subgroup_id, post_type, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		params.Title,
		params.Content,
		params.AuthorId,
		nullableId(params.SubgroupId),
		params.PostType,
		time.Now().UTC(),
	).Scan(&postId)
	if err != nil {
		return Post{}, err
	}

	return db.GetPostById(postId)
}

func (db *PgCollegeHubRepository) GetPostById(id int) (Post, error) {
	rows, err := db.conn.Query(listPostsQuery+" WHERE p.id = $1", id)
	if err != nil {
		return Post{}, err
	}

	posts, err := scanPosts(rows)
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, sql.ErrNoRows
	}

	return posts[0], nil
}

func (db *PgCollegeHubRepository) VotePost(postId, userId, vote int) (VoteCounts, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return VoteCounts{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var prev sql.NullInt64
	err = tx.QueryRow(
		"SELECT vote FROM post_votes WHERE post_id = $1 AND user_id = $2",
		postId, userId,
	).Scan(&prev)
	if err != nil && err != sql.ErrNoRows {
		return VoteCounts{}, err
	}
	err = nil

	switch {
	case !prev.Valid && vote != 0:
		if _, err = tx.Exec(
			"INSERT INTO post_votes (post_id, user_id, vote, created_at) VALUES ($1, $2, $3, $4)",
			postId, userId, vote, time.Now().UTC(),
		); err != nil {
			return VoteCounts{}, err
		}
		if vote == 1 {
			_, err = tx.Exec("UPDATE posts SET upvotes = upvotes + 1 WHERE id = $1", postId)
		} else {
			_, err = tx.Exec("UPDATE posts SET downvotes = downvotes + 1 WHERE id = $1", postId)
		}
		if err != nil {
			return VoteCounts{}, err
		}
	case prev.Valid && vote == 0:
		if _, err = tx.Exec(
			"DELETE FROM post_votes WHERE post_id = $1 AND user_id = $2",
			postId, userId,
		); err != nil {
			return VoteCounts{}, err
		}
		if prev.Int64 == 1 {
			_, err = tx.Exec("UPDATE posts SET upvotes = upvotes - 1 WHERE id = $1", postId)
		} else {
			_, err = tx.Exec("UPDATE posts SET downvotes = downvotes - 1 WHERE id = $1", postId)
		}
		if err != nil {
			return VoteCounts{}, err
		}
	case prev.Valid && vote != 0 && int(prev.Int64) != vote:
		if _, err = tx.Exec(
			"UPDATE post_votes SET vote = $3 WHERE post_id = $1 AND user_id = $2",
			postId, userId, vote,
		); err != nil {
			return VoteCounts{}, err
		}
		if vote == 1 {
			_, err = tx.Exec("UPDATE posts SET downvotes = downvotes - 1, upvotes = upvotes + 1 WHERE id = $1", postId)
		} else {
			_, err = tx.Exec("UPDATE posts SET upvotes = upvotes - 1, downvotes = downvotes + 1 WHERE id = $1", postId)
		}
		if err != nil {
			return VoteCounts{}, err
		}
	}

	var counts VoteCounts
	if err = tx.QueryRow(
		"SELECT upvotes, downvotes FROM posts WHERE id = $1",
		postId,
	).Scan(&counts.Upvotes, &counts.Downvotes); err != nil {
		return VoteCounts{}, err
	}

	if err = tx.Commit(); err != nil {
		return VoteCounts{}, err
	}

	return counts, nil
}

func (db *PgCollegeHubRepository) ListCollegePosts(collegeName string, limit int) ([]Post, error) {
	rows, err := db.conn.Query(
		listPostsQuery+" WHERE u.college_name = $1 ORDER BY p.created_at DESC LIMIT $2",
		collegeName, limit,
	)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func (db *PgCollegeHubRepository) ListComments(postId int) ([]Comment, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.content, COALESCE(u.name, 'Unknown'), c.created_at "+
			"FROM comments c LEFT JOIN users u ON c.author_id = u.id "+
			"WHERE c.post_id = $1 ORDER BY c.created_at ASC",
		postId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.Id, &c.Content, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (db *PgCollegeHubRepository) CreateComment(content string, authorId, postId int) (Comment, error) {
	c := Comment{
		Content:  content,
		AuthorId: authorId,
		PostId:   postId,
	}
	err := db.conn.QueryRow(
		"INSERT INTO comments (content, author_id, post_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		content, authorId, postId, time.Now().UTC(),
	).Scan(&c.Id, &c.CreatedAt)
	if err != nil {
		return Comment{}, err
	}

	if err := db.conn.QueryRow(
		"SELECT name FROM users WHERE id = $1", authorId,
	).Scan(&c.AuthorName); err != nil {
		return Comment{}, err
	}

	return c, nil
}

const listProjectsQuery = "SELECT DISTINCT p.id, p.title, p.description, u.name, p.visibility, p.tags, p.created_at, " +
	"(SELECT COUNT(*) FROM project_members pm WHERE pm.project_id = p.id) AS member_count " +
	"FROM projects p JOIN users u ON p.owner_id = u.id"

func (db *PgCollegeHubRepository) scanProjects(rows *sql.Rows) ([]Project, error) {
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		err := rows.Scan(
			&p.Id,
			&p.Title,
			&p.Description,
			&p.OwnerName,
			&p.Visibility,
			&p.Tags,
			&p.CreatedAt,
			&p.MemberCount,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		counts, err := db.taskCounts(projects[i].Id)
		if err != nil {
			return nil, err
		}
		projects[i].TaskCounts = counts
	}

	return projects, nil
}

func (db *PgCollegeHubRepository) taskCounts(projectId int) (map[string]int, error) {
	rows, err := db.conn.Query(
		"SELECT status, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY status",
		projectId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{"todo": 0, "doing": 0, "done": 0}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (db *PgCollegeHubRepository) ListProjects(userId int) ([]Project, error) {
	rows, err := db.conn.Query(
		listProjectsQuery+
			" WHERE p.owner_id = $1 OR p.id IN (SELECT project_id FROM project_members WHERE user_id = $1)"+
			" ORDER BY p.created_at DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}

	return db.scanProjects(rows)
}

func (db *PgCollegeHubRepository) GetProjectById(id int) (Project, error) {
	row := db.conn.QueryRow(
		"SELECT p.id, p.title, p.description, p.owner_id, u.name, p.visibility, p.tags, p.created_at "+
			"FROM projects p JOIN users u ON p.owner_id = u.id WHERE p.id = $1 LIMIT 1",
		id,
	)

	var p Project
	err := row.Scan(
		&p.Id,
		&p.Title,
		&p.Description,
		&p.OwnerId,
		&p.OwnerName,
		&p.Visibility,
		&p.Tags,
		&p.CreatedAt,
	)

	return p, err
}

func (db *PgCollegeHubRepository) CreateProject(params CreateProjectParams) (Project, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Project{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO projects (title, description, owner_id, visibility, tags, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, title, description, owner_id, visibility, tags, created_at",
		params.Title,
		params.Description,
		params.OwnerId,
		params.Visibility,
		params.Tags,
		time.Now().UTC(),
	)

	var p Project
	err = res.Scan(
		&p.Id,
		&p.Title,
		&p.Description,
		&p.OwnerId,
		&p.Visibility,
		&p.Tags,
		&p.CreatedAt,
	)
	if err != nil {
		return Project{}, err
	}

	// the owner is always a member of their own project
	_, err = tx.Exec(
		"INSERT INTO project_members (project_id, user_id, role, joined_at) VALUES ($1, $2, 'owner', $3)",
		p.Id,
		params.OwnerId,
		time.Now().UTC(),
	)
	if err != nil {
		return Project{}, err
	}

	if err = tx.Commit(); err != nil {
		return Project{}, err
	}

	p.MemberCount = 1
	return p, nil
}

func (db *PgCollegeHubRepository) IsProjectMember(projectId, userId int) (bool, error) {
	var member bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)",
		projectId, userId,
	).Scan(&member)

	return member, err
}

func (db *PgCollegeHubRepository) ListCollegeProjects(collegeName string) ([]Project, error) {
	rows, err := db.conn.Query(
		listProjectsQuery+
			" WHERE u.college_name = $1 AND (p.visibility = 'public' OR p.visibility = 'college_only')"+
			" ORDER BY p.created_at DESC",
		collegeName,
	)
	if err != nil {
		return nil, err
	}

	return db.scanProjects(rows)
}

func (db *PgCollegeHubRepository) ListTasks(projectId int) ([]Task, error) {
	rows, err := db.conn.Query(
		"SELECT t.id, t.title, t.description, t.project_id, COALESCE(u.name, ''), t.status, t.created_at "+
			"FROM tasks t LEFT JOIN users u ON t.assignee_id = u.id "+
			"WHERE t.project_id = $1 ORDER BY t.created_at DESC",
		projectId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		err := rows.Scan(
			&t.Id,
			&t.Title,
			&t.Description,
			&t.ProjectId,
			&t.AssigneeName,
			&t.Status,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (db *PgCollegeHubRepository) CreateTask(params CreateTaskParams) (Task, error) {
	t := Task{
		Title:       params.Title,
		Description: params.Description,
		ProjectId:   params.ProjectId,
		AssigneeId:  params.AssigneeId,
		Status:      params.Status,
	}

	err := db.conn.QueryRow(
		"INSERT INTO tasks (title, description, project_id, assignee_id, status, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at",
		params.Title,
		params.Description,
		params.ProjectId,
		nullableId(params.AssigneeId),
		params.Status,
		time.Now().UTC(),
	).Scan(&t.Id, &t.CreatedAt)
	if err != nil {
		return Task{}, err
	}

	if params.AssigneeId > 0 {
		if err := db.conn.QueryRow(
			"SELECT name FROM users WHERE id = $1", params.AssigneeId,
		).Scan(&t.AssigneeName); err != nil {
			return Task{}, err
		}
	}

	return t, nil
}

func (db *PgCollegeHubRepository) UpdateTaskStatus(taskId int, status string) error {
	res, err := db.conn.Exec("UPDATE tasks SET status = $2 WHERE id = $1", taskId, status)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgCollegeHubRepository) CreateProjectMessage(content string, senderId, projectId int) (ProjectMessage, error) {
	msg := ProjectMessage{
		Content:   content,
		SenderId:  senderId,
		ProjectId: projectId,
	}
	err := db.conn.QueryRow(
		"INSERT INTO project_messages (content, sender_id, project_id, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		content, senderId, projectId, time.Now().UTC(),
	).Scan(&msg.Id, &msg.CreatedAt)
	if err != nil {
		return ProjectMessage{}, err
	}

	return msg, nil
}

func (db *PgCollegeHubRepository) ListProjectMessages(projectId, limit int) ([]ProjectMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	rows, err := db.conn.Query(
		"SELECT pm.id, pm.content, pm.sender_id, u.name, pm.project_id, pm.created_at "+
			"FROM project_messages pm JOIN users u ON pm.sender_id = u.id "+
			"WHERE pm.project_id = $1 ORDER BY pm.created_at ASC LIMIT $2",
		projectId, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []ProjectMessage
	for rows.Next() {
		var m ProjectMessage
		err := rows.Scan(
			&m.Id,
			&m.Content,
			&m.SenderId,
			&m.SenderName,
			&m.ProjectId,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (db *PgCollegeHubRepository) GetAdminStats() (AdminStats, error) {
	var stats AdminStats

	totals := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM users", &stats.TotalUsers},
		{"SELECT COUNT(*) FROM colleges", &stats.TotalColleges},
		{"SELECT COUNT(*) FROM projects", &stats.TotalProjects},
		{"SELECT COUNT(*) FROM posts", &stats.TotalPosts},
	}
	for _, t := range totals {
		if err := db.conn.QueryRow(t.query).Scan(t.dest); err != nil {
			return AdminStats{}, fmt.Errorf("admin stats: %w", err)
		}
	}

	usersByCollege, err := db.collegeCounts(
		"SELECT college_name, COUNT(*) AS count FROM users " +
			"WHERE college_name IS NOT NULL AND college_name != '' " +
			"GROUP BY college_name ORDER BY count DESC",
	)
	if err != nil {
		return AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}
	stats.UsersByCollege = usersByCollege

	projectsByCollege, err := db.collegeCounts(
		"SELECT u.college_name, COUNT(p.id) AS count FROM projects p " +
			"JOIN users u ON p.owner_id = u.id " +
			"WHERE u.college_name IS NOT NULL AND u.college_name != '' " +
			"GROUP BY u.college_name ORDER BY count DESC",
	)
	if err != nil {
		return AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}
	stats.ProjectsByCollege = projectsByCollege

	return stats, nil
}

func (db *PgCollegeHubRepository) collegeCounts(query string) ([]CollegeCount, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CollegeCount
	for rows.Next() {
		var c CollegeCount
		if err := rows.Scan(&c.College, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
