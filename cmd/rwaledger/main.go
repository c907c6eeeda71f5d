// rwaledger 现实世界资产份额账本服务
package main

func main() {
	Execute()
}
