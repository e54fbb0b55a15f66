package console

import (
	"sort"
	"strings"
)

var helpTopics = map[string]string{
	"create":  "create <class>\n    Create an instance of <class>, save it, and print its id.",
	"show":    "show <class> <id>\n    Print the instance of <class> with the given id.",
	"destroy": "destroy <class> <id>\n    Delete the instance of <class> with the given id and save.",
	"all":     "all [class]\n    Print every instance, or every instance of [class].",
	"update":  "update <class> <id> <attribute> <value>\n    Set an attribute on an instance and save.\n    Values with a dot are floats, other numbers are ints, anything else is text.",
	"count":   "<class>.count()\n    Print the number of instances of <class>.",
	"quit":    "quit\n    Exit the console.",
	"EOF":     "EOF\n    Exit the console (Ctrl-D).",
	"help":    "help [command]\n    List commands, or describe one.",
}

const methodHelp = `Every command except quit and help may also be written as <class>.<command>(<args>):
    User.all()  User.count()  User.show("<id>")  User.destroy("<id>")
    User.update("<id>", "<attribute>", <value>)
    User.update("<id>", {"<attribute>": <value>, ...})`

// help prints the command list, or the usage of one topic.
func (c *Console) help(topic string) {
	if topic == "" {
		names := make([]string, 0, len(helpTopics))
		for name := range helpTopics {
			names = append(names, name)
		}
		sort.Strings(names)

		header := "Documented commands (type help <topic>):"
		c.println("")
		c.println(header)
		c.println(strings.Repeat("=", len(header)))
		c.println(strings.Join(names, "  "))
		c.println("")
		c.println(methodHelp)
		c.println("")
		return
	}
	text, ok := helpTopics[topic]
	if !ok {
		c.println("*** No help on " + topic)
		return
	}
	c.println(text)
}
