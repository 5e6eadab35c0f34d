package sftpagent

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// idTable maps between names and numeric ids from a passwd or group file.
type idTable struct {
	byName map[string]int
	byID   map[int]string
}

// parseIDTable reads colon separated records where the first field is the
// name and the third is the numeric id. Malformed lines are skipped.
func parseIDTable(r io.Reader) (*idTable, error) {
	t := &idTable{byName: make(map[string]int), byID: make(map[int]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		id, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		if _, ok := t.byName[fields[0]]; !ok {
			t.byName[fields[0]] = id
		}
		if _, ok := t.byID[id]; !ok {
			t.byID[id] = fields[0]
		}
	}
	return t, scanner.Err()
}

// loadTables reads the passwd and group files from the remote host. A missing
// file yields an empty table.
func (a *Agent) loadTables() (users, groups *idTable, err error) {
	a.idsMu.Lock()
	defer a.idsMu.Unlock()
	if a.users != nil {
		return a.users, a.groups, nil
	}

	users, err = a.readTable(a.passwdFile)
	if err != nil {
		return nil, nil, err
	}
	groups, err = a.readTable(a.groupFile)
	if err != nil {
		return nil, nil, err
	}
	a.users, a.groups = users, groups
	return users, groups, nil
}

func (a *Agent) readTable(path string) (*idTable, error) {
	f, err := a.client.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return parseIDTable(bytes.NewReader(nil))
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseIDTable(f)
}

// lookupOwner resolves optional user and group names. Unset names yield -1.
func (a *Agent) lookupOwner(userName, groupName string) (uid, gid int, err error) {
	uid, gid = -1, -1
	if userName == "" && groupName == "" {
		return uid, gid, nil
	}
	users, groups, err := a.loadTables()
	if err != nil {
		return 0, 0, err
	}
	if userName != "" {
		id, ok := users.byName[userName]
		if !ok {
			return 0, 0, genericError("cannot look up user and group: user: unknown user %s", userName)
		}
		uid = id
	}
	if groupName != "" {
		id, ok := groups.byName[groupName]
		if !ok {
			return 0, 0, genericError("cannot look up user and group: group: unknown group %s", groupName)
		}
		gid = id
	}
	return uid, gid, nil
}

// names returns the user and group names for numeric ids, or "" when unknown.
func (a *Agent) names(uid, gid int) (userName, groupName string) {
	users, groups, err := a.loadTables()
	if err != nil {
		return "", ""
	}
	return users.byID[uid], groups.byID[gid]
}
